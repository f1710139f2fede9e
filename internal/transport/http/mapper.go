package http

import (
	"encoding/json"
	"time"

	"github.com/vovakirdan/roomgate/internal/core"
	"github.com/vovakirdan/roomgate/internal/proto"
	"github.com/vovakirdan/roomgate/internal/utils"
)

func inboundToCommand(sessionID string, inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeEnter, proto.InboundTypeSetPassword:
		var data proto.PasswordData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		if data.Password == nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "password is required"}, nil
		}
		kind := core.CommandEnterRoom
		if inbound.Type == proto.InboundTypeSetPassword {
			kind = core.CommandSetPassword
		}
		return &core.Command{
			Kind:     kind,
			Session:  sessionID,
			Room:     data.Room,
			Password: *data.Password,
		}, nil, nil
	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandAddMessage,
			Session: sessionID,
			Room:    msg.Room,
			Message: newMessage(msg.Author, msg.Content, msg.Encrypted),
		}, nil, nil
	case proto.InboundTypeView:
		var view proto.RoomData
		if err := json.Unmarshal(inbound.Data, &view); err != nil {
			return nil, nil, err
		}
		if view.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{
			Kind:    core.CommandView,
			Session: sessionID,
			Room:    view.Room,
		}, nil, nil
	case proto.InboundTypeRooms:
		return &core.Command{Kind: core.CommandListRooms, Session: sessionID}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func newMessage(author, content string, encrypted bool) core.Message {
	return core.Message{
		ID:        utils.NewMessageID(),
		Author:    author,
		Content:   content,
		Encrypted: encrypted,
		CreatedAt: time.Now(),
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventSession:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventSession,
			Data:  proto.SessionData{SessionID: event.SessionID},
		}
	case core.EventView:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventView,
			Data:  viewToData(event.View),
		}
	case core.EventRooms:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRooms,
			Data:  roomsToData(event.Rooms),
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func viewToData(view *core.View) proto.ViewData {
	if view == nil {
		return proto.ViewData{Lines: []proto.LineData{}}
	}
	lines := make([]proto.LineData, 0, len(view.Lines))
	for _, l := range view.Lines {
		lines = append(lines, proto.LineData{
			ID:       l.MessageID,
			Author:   l.Author,
			Text:     l.Text,
			Obscured: l.Obscured,
		})
	}
	return proto.ViewData{
		Room:     view.Room,
		Screen:   string(view.Screen),
		Unlocked: view.Unlocked,
		Lines:    lines,
	}
}

func roomsToData(rooms []core.RoomSummary) []proto.RoomSummaryData {
	out := make([]proto.RoomSummaryData, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, proto.RoomSummaryData{
			Room:        r.ID,
			HasPassword: r.HasPassword,
			Messages:    r.MessageCount,
		})
	}
	return out
}
