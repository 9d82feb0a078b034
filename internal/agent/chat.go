package agent

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ChatSession manages an interactive terminal chat session.
type ChatSession struct {
	agent   *Agent
	session string
}

// NewChatSession creates a chat session with a fresh session ID so its
// conversation context never collides with API sessions.
func NewChatSession(agent *Agent) *ChatSession {
	return &ChatSession{
		agent:   agent,
		session: uuid.NewString(),
	}
}

// Send routes one message through the agent.
func (s *ChatSession) Send(ctx context.Context, message string) string {
	return s.agent.HandleQuery(ctx, s.session, message)
}

// Clear resets the conversation context for this session.
func (s *ChatSession) Clear() {
	s.agent.Tracker().Clear(s.session)
}

// RunInteractive runs an interactive chat in the terminal.
func (s *ChatSession) RunInteractive(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("Workspace Agent")
	fmt.Println("   Type 'exit' to quit, 'clear' to reset conversation")
	fmt.Println()

	for {
		fmt.Print("You: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", "bye":
			fmt.Println("\nGoodbye!")
			return nil
		case "clear":
			s.Clear()
			fmt.Println("Conversation cleared")
			fmt.Println()
			continue
		}

		fmt.Printf("\nAgent: %s\n\n", s.Send(ctx, input))
	}
}
