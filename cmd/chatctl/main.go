package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/olekukonko/tablewriter"

	"chat-rooms/domain"
	"chat-rooms/protocol"
)

// chatctl is a small terminal client for the chat server.
// Commands: /create <room>, /join <room>, /rooms, /leave, /quit.
// Anything else is sent as a chat message to the current room.
func main() {
	addr := flag.String("addr", "localhost:8080", "Server host:port")
	name := flag.String("name", "", "Display name (prompted if empty)")
	flag.Parse()

	username := *name
	stdin := bufio.NewScanner(os.Stdin)
	if username == "" {
		fmt.Print("Display name: ")
		if !stdin.Scan() {
			return
		}
		username = strings.TrimSpace(stdin.Text())
	}

	// 1. Open the websocket
	url := fmt.Sprintf("ws://%s/ws", *addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("Connection to %s failed: %v", url, err)
	}
	defer conn.Close()

	// 2. Identify
	if err := send(conn, protocol.ConnectRequest{Type: protocol.TypeConnect, Username: username}); err != nil {
		log.Fatalf("Failed to send connect: %v", err)
	}

	// 3. Render server events until the connection drops
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			render(raw)
		}
	}()

	// 4. Read commands from stdin
	for stdin.Scan() {
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			continue
		}

		var payload any
		switch {
		case line == "/quit":
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			<-done
			return
		case strings.HasPrefix(line, "/create "):
			payload = protocol.CreateRoomRequest{Type: protocol.TypeCreateRoom, RoomName: strings.TrimPrefix(line, "/create ")}
		case strings.HasPrefix(line, "/join "):
			payload = protocol.JoinRoomRequest{Type: protocol.TypeJoinRoom, RoomName: strings.TrimPrefix(line, "/join ")}
		case line == "/rooms":
			payload = protocol.Envelope{Type: protocol.TypeListRooms}
		case line == "/leave":
			payload = protocol.Envelope{Type: protocol.TypeLeave}
		default:
			payload = protocol.MessageRequest{Type: protocol.TypeMessage, Content: line}
		}
		if err := send(conn, payload); err != nil {
			log.Fatalf("Send failed: %v", err)
		}
	}
	<-done
}

func send(conn *websocket.Conn, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func render(raw []byte) {
	var env protocol.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}

	switch env.Type {
	case protocol.TypeConnected:
		var msg protocol.Connected
		_ = json.Unmarshal(raw, &msg)
		color.Green.Println(msg.Message)
	case protocol.TypeRooms:
		var msg protocol.RoomList
		_ = json.Unmarshal(raw, &msg)
		printRooms(msg.Rooms)
	case protocol.TypeJoined:
		var msg protocol.Joined
		_ = json.Unmarshal(raw, &msg)
		color.Cyan.Printf("Joined %s (members: %s)\n", msg.Room, strings.Join(msg.Members, ", "))
	case protocol.TypeChat:
		var msg protocol.Chat
		_ = json.Unmarshal(raw, &msg)
		fmt.Printf("%s %s: %s\n", color.Gray.Render(msg.Timestamp), color.Yellow.Render(msg.Sender), msg.Content)
	case protocol.TypeUserJoined:
		var msg protocol.UserJoined
		_ = json.Unmarshal(raw, &msg)
		color.Cyan.Printf("%s joined (members: %s)\n", msg.Name, strings.Join(msg.Members, ", "))
	case protocol.TypeUserLeft:
		var msg protocol.UserLeft
		_ = json.Unmarshal(raw, &msg)
		color.Cyan.Printf("%s left (members: %s)\n", msg.Name, strings.Join(msg.Members, ", "))
	case protocol.TypeError:
		var msg protocol.ErrorReply
		_ = json.Unmarshal(raw, &msg)
		color.Red.Printf("Error: %s\n", msg.Message)
	}
}

func printRooms(rooms []domain.RoomInfo) {
	if len(rooms) == 0 {
		color.Gray.Println("No active rooms")
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room", "Members", "Created At"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, room := range rooms {
		table.Append([]string{room.Name, strconv.Itoa(room.MemberCount), room.CreatedAt})
	}
	table.Render()
}
