// Command toolchat runs an interactive terminal chat against the assistant.
// Credentials are read from the environment (OPENAI_API_KEY or
// ANTHROPIC_API_KEY, plus per-tool keys); see config.Load for the full list.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/calebsh/toolchat"
	"github.com/calebsh/toolchat/config"
	"github.com/calebsh/toolchat/core"
)

var exitWords = map[string]struct{}{
	"quit": {},
	"exit": {},
	"退出":   {},
	"再见":   {},
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	assistant, err := toolchat.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := core.NewID()
	fmt.Println("Assistant ready. Ask about weather, news, stocks, or have me send an email or message.")
	fmt.Println("Type 'quit' to leave.")

	return chatLoop(ctx, os.Stdin, os.Stdout, func(ctx context.Context, text string) (string, error) {
		return assistant.Chat(ctx, sessionID, text)
	})
}

// chatLoop reads one message per line and prints the assistant's replies.
// Context cancellation (Ctrl-C) is checked both before prompting and after
// each read, so an interrupt delivered while blocked in Scan exits cleanly
// as soon as the read returns instead of feeding the line to the assistant.
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, chat func(context.Context, string) (string, error)) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}

		fmt.Fprint(out, "\nyou> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if _, ok := exitWords[strings.ToLower(text)]; ok {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}

		reply, err := chat(ctx, text)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			return err
		}
		fmt.Fprintln(out, "\nassistant>", reply)
	}
}
