package http

import (
	"encoding/json"

	"github.com/beamchat/beamchat-server/internal/core"
	"github.com/beamchat/beamchat-server/internal/proto"
	"github.com/beamchat/beamchat-server/internal/store"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeAutoLogin:
		var data proto.AutoLoginData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Username == "" || data.UserID == 0 {
			return nil, &proto.Error{Code: "bad_request", Msg: "username and user_id are required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandAutoLogin,
			Username: data.Username,
			UserID:   data.UserID,
		}, nil, nil
	case proto.InboundTypeLogin:
		var data proto.LoginData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.Username == "" || data.Password == "" {
			return nil, &proto.Error{Code: "bad_request", Msg: "username and password are required"}, nil
		}
		return &core.Command{
			Kind:     core.CommandLogin,
			Username: data.Username,
			Password: data.Password,
		}, nil, nil
	case proto.InboundTypeSend:
		var data proto.SendData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}
		return &core.Command{
			Kind: core.CommandSendMessage,
			Body: data.Body,
		}, nil, nil
	case proto.InboundTypeLogout:
		return &core.Command{Kind: core.CommandLogout}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func messageData(msg *store.Message) proto.MessageData {
	return proto.MessageData{
		ID:        msg.ID,
		Username:  msg.Username,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventAuthError:
		return outboundEvent(proto.EventAuthError, proto.ReasonData{Reason: event.Reason})
	case core.EventLoginError:
		return outboundEvent(proto.EventLoginError, proto.ReasonData{Reason: event.Reason})
	case core.EventLoginSuccess:
		return outboundEvent(proto.EventLoginSuccess, proto.LoginSuccessData{
			Username: event.Username,
			UserID:   event.UserID,
		})
	case core.EventUserConnected:
		return outboundEvent(proto.EventUserConnected, proto.PresenceData{Username: event.User})
	case core.EventUserDisconnected:
		return outboundEvent(proto.EventUserDisconnected, proto.PresenceData{Username: event.User})
	case core.EventOnlineUsers:
		return outboundEvent(proto.EventOnlineUsers, proto.OnlineUsersData{Users: event.Users})
	case core.EventLoadMessages:
		messages := make([]proto.MessageData, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, messageData(msg))
		}
		return outboundEvent(proto.EventLoadMessages, proto.LoadMessagesData{Messages: messages})
	case core.EventMessageStored:
		return outboundEvent(proto.EventMessageStored, proto.MessageStoredData{
			ID:        event.Message.ID,
			CreatedAt: event.Message.CreatedAt,
		})
	case core.EventMessageError:
		return outboundEvent(proto.EventMessageError, proto.ReasonData{Reason: event.Reason})
	case core.EventChatMessage:
		return outboundEvent(proto.EventChatMessage, messageData(event.Message))
	case core.EventLogoutSuccess:
		return outboundEvent(proto.EventLogoutSuccess, struct{}{})
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func outboundEvent(name string, data any) proto.Outbound {
	return proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: name,
		Data:  data,
	}
}
