package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/askdb-io/askdb/internal/answer"
	"github.com/askdb-io/askdb/internal/errors"
)

var (
	askProvider string
	askModel    string
	askTimeout  int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a natural-language question about the practice database",
	Long: `Ask a question in plain English. The model receives a live snapshot of the
database schema alongside the question, and its SQL is cleaned up before the
answer is shown.

Without a question, ask starts an interactive session that keeps the schema
snapshot cached between questions.`,
	Example: `  # Financial
  askdb ask "Show me all bank statements with deposits greater than $10,000"
  askdb ask "What was our profit in Q4 2024?"
  askdb ask "Compare total revenue between Q3 and Q4 2024"
  askdb ask "Show me our top 5 revenue-generating procedures"

  # Vendors and suppliers
  askdb ask "List all purchase orders from Medline Industries"
  askdb ask "Show me items in the supply catalog with price greater than $1900"
  askdb ask "What is the payment term for Blue Cross?"
  askdb ask "List all purchase order items with unit price over $1000"

  # Practice management
  askdb ask "Who owns the most equity in the practice?"
  askdb ask "Find all procedures covered by Aetna"

  # Interactive session
  askdb ask`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askProvider, "provider", "", "Model provider: openai, anthropic, or ollama")
	askCmd.Flags().StringVar(&askModel, "model", "", "Model name (provider default when empty)")
	askCmd.Flags().IntVar(&askTimeout, "timeout", 0, "Model call timeout in seconds")

	rootCmd.AddCommand(askCmd)
}

// questionAnswerer is the slice of the answer pipeline the command needs.
// Tests script replies through it without a model provider.
type questionAnswerer interface {
	Answer(ctx context.Context, question string) string
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := appConfig

	st, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer st.Close()

	agent, err := buildAgent(cfg)
	if err != nil {
		return err
	}

	answerer := answer.New(st, agent, answer.Options{
		SampleRows:     cfg.Cache.SampleRows,
		SchemaCapacity: cfg.Cache.SchemaCapacity,
		AgentTimeout:   cfg.AgentTimeout(),
	})

	if len(args) == 0 {
		return runAskInteractive(ctx, os.Stdin, answerer)
	}

	question := strings.TrimSpace(args[0])
	if err := validateQuestion(question); err != nil {
		return err
	}

	fmt.Println(askOnce(ctx, answerer, question))

	return nil
}

// runAskInteractive reads questions until EOF or an exit word. One answerer
// serves the whole session, so the schema snapshot is only rebuilt when its
// cache slot expires.
func runAskInteractive(ctx context.Context, in io.Reader, answerer questionAnswerer) error {
	fmt.Println(`Ask questions about the practice database. Type "exit" to quit.`)

	scanner := bufio.NewScanner(in)

	for {
		fmt.Print("askdb> ")

		if !scanner.Scan() {
			fmt.Println()
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}

		if question == "exit" || question == "quit" {
			break
		}

		fmt.Println(askOnce(ctx, answerer, question))
		fmt.Println()
	}

	return scanner.Err()
}

// askOnce answers one question with a progress spinner on stderr while the
// model call is in flight
func askOnce(ctx context.Context, answerer questionAnswerer, question string) string {
	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr))
	spin.Suffix = " Thinking..."
	spin.Start()

	reply := answerer.Answer(ctx, question)

	spin.Stop()

	return reply
}

// validateQuestion rejects questions too short to mean anything
func validateQuestion(question string) error {
	if len(question) < 3 {
		return errors.New(errors.ErrTypeValidation,
			"question must be at least 3 characters long")
	}

	return nil
}
