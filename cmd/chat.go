package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/container"
)

var (
	chatConfig  string
	chatMessage string
	chatUser    string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant from the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatConfig, "config", "c", "", "Config file path")
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "cli:local", "User id to chat as")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(chatConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if chatMessage != "" {
		return runSingleMessage(c, chatMessage)
	}
	return runInteractive(c)
}

// runSingleMessage runs one turn and prints the reply.
func runSingleMessage(c *container.Container, message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := c.Chat().ProcessTurn(ctx, chatUser, 0, message)
	if err != nil {
		return err
	}
	printResponse(res.Response)
	return nil
}

// runInteractive starts the REPL: each line is one chat turn in a single
// conversation.
func runInteractive(c *container.Container) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listenForSignals(cancel)

	scanner := bufio.NewScanner(os.Stdin)
	var conversationID int64

	for {
		fmt.Print("You: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		res, err := c.Chat().ProcessTurn(ctx, chatUser, conversationID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		conversationID = res.ConversationID
		printResponse(res.Response)
	}
}

// listenForSignals cancels ctx on SIGINT or SIGTERM and exits.
func listenForSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()
}

func printResponse(content string) {
	fmt.Printf("\n%s %s\n\n", logo, content)
}
