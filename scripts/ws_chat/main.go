package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/beamchat/beamchat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "", "username")
	password := flag.String("password", "", "password")
	flag.Parse()

	if *user == "" || *password == "" {
		return errors.New("both -user and -password are required")
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(v interface{}) {
		if writeErr := wsjson.Write(ctx, conn, v); writeErr != nil {
			cancel()
			log.Printf("send: %v", writeErr)
		}
	}

	loginPayload, err := json.Marshal(proto.LoginData{Username: *user, Password: *password})
	if err != nil {
		return fmt.Errorf("marshal login: %w", err)
	}
	send(proto.Inbound{Type: proto.InboundTypeLogin, Data: loginPayload})

	fmt.Printf("Connected to %s as %s\n", *addr, *user)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, send)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func decodeData(data any, out any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		switch outbound.Event {
		case proto.EventChatMessage:
			var evt proto.MessageData
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal chat message: %v", err)
				continue
			}
			fmt.Printf("%s: %s\n", evt.Username, evt.Body)
		case proto.EventUserConnected:
			var evt proto.PresenceData
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal presence: %v", err)
				continue
			}
			fmt.Printf("* %s connected\n", evt.Username)
		case proto.EventUserDisconnected:
			var evt proto.PresenceData
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal presence: %v", err)
				continue
			}
			fmt.Printf("* %s disconnected\n", evt.Username)
		case proto.EventOnlineUsers:
			var evt proto.OnlineUsersData
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal online users: %v", err)
				continue
			}
			fmt.Printf("* online: %v\n", evt.Users)
		case proto.EventLoadMessages:
			var evt proto.LoadMessagesData
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal history: %v", err)
				continue
			}
			for _, msg := range evt.Messages {
				fmt.Printf("%s: %s\n", msg.Username, msg.Body)
			}
		case proto.EventLoginError, proto.EventAuthError, proto.EventMessageError:
			var evt proto.ReasonData
			if err := decodeData(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal error event: %v", err)
				continue
			}
			fmt.Printf("! %s: %s\n", outbound.Event, evt.Reason)
		default:
			if outbound.Error != nil {
				fmt.Printf("! error: %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
			}
		}
	}
}

func writeLoop(ctx context.Context, send func(interface{})) {
	lines := make(chan string)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "" {
				continue
			}
			payload, err := json.Marshal(proto.SendData{Body: line})
			if err != nil {
				log.Printf("marshal message: %v", err)
				continue
			}
			send(proto.Inbound{Type: proto.InboundTypeSend, Data: payload})
		}
	}
}
