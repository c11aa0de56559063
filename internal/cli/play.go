package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// serverEvent is the union of every event the server sends; the Type tag
// says which fields are meaningful
type serverEvent struct {
	Type           string `json:"type"`
	RoomCode       string `json:"roomCode,omitempty"`
	PlayerName     string `json:"playerName,omitempty"`
	OpponentName   string `json:"opponentName,omitempty"`
	Choice         string `json:"choice,omitempty"`
	YourChoice     string `json:"yourChoice,omitempty"`
	OpponentChoice string `json:"opponentChoice,omitempty"`
	Result         string `json:"result,omitempty"`
	Message        string `json:"message,omitempty"`
}

func newPlayCmd() *cobra.Command {
	var name string
	var join string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play rock paper scissors interactively",
		Long: `play connects to the server and plays interactively.

Without --join it creates a new room and prints the code to share.
With --join it joins an existing room by code.

Type rock, paper or scissors to play a round; quit to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}

			ws, _, err := websocket.DefaultDialer.Dial(client.WebsocketURL(), nil)
			if err != nil {
				return fmt.Errorf("failed to connect: %w", err)
			}
			defer func() { _ = ws.Close() }()

			var opening map[string]string
			if join != "" {
				opening = map[string]string{
					"type":       "join_room",
					"roomCode":   strings.ToUpper(join),
					"playerName": name,
				}
			} else {
				opening = map[string]string{
					"type":       "create_room",
					"playerName": name,
				}
			}
			if err := ws.WriteJSON(opening); err != nil {
				return fmt.Errorf("failed to send: %w", err)
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					var ev serverEvent
					if err := ws.ReadJSON(&ev); err != nil {
						return
					}
					printEvent(ev)
				}
			}()

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				select {
				case <-done:
					return nil
				default:
				}

				line := strings.ToLower(strings.TrimSpace(scanner.Text()))
				switch line {
				case "":
					continue
				case "quit", "exit":
					_ = ws.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return nil
				case "rock", "paper", "scissors":
					msg := map[string]string{"type": "make_choice", "choice": line}
					if err := ws.WriteJSON(msg); err != nil {
						return fmt.Errorf("failed to send: %w", err)
					}
				default:
					fmt.Println("Type rock, paper, scissors or quit")
				}
			}

			<-done
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your player name (required)")
	cmd.Flags().StringVar(&join, "join", "", "Room code to join (omit to create a room)")

	return cmd
}

func printEvent(ev serverEvent) {
	switch ev.Type {
	case "room_created":
		fmt.Printf("Room created: %s (share this code)\n", ev.RoomCode)
		fmt.Println("Waiting for an opponent...")
	case "game_ready":
		fmt.Printf("Game on: %s vs %s in room %s\n", ev.PlayerName, ev.OpponentName, ev.RoomCode)
		fmt.Println("Type rock, paper or scissors")
	case "choice_received":
		fmt.Printf("You chose %s, waiting for your opponent...\n", ev.Choice)
	case "game_result":
		fmt.Printf("%s vs %s: you %s\n", ev.YourChoice, ev.OpponentChoice, ev.Result)
	case "opponent_disconnected":
		fmt.Println("Your opponent disconnected")
	case "error":
		fmt.Fprintf(os.Stderr, "Error: %s\n", ev.Message)
	default:
		data, _ := json.Marshal(ev)
		fmt.Println(string(data))
	}
}
