package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/matria/internal/config"
	"github.com/sandevgo/matria/internal/core"
	"github.com/sandevgo/matria/internal/service/triage"
	"github.com/sandevgo/matria/internal/service/ui"
	"github.com/sandevgo/matria/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	cfg *config.AppConfig
	svc *triage.Service
	rl  *readline.Instance
}

func NewReadLine(svc *triage.Service, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg: cfg,
		svc: svc,
		rl:  rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("Matria chat started. Type 'exit' to quit, 'reset' to start a new conversation.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "reset" {
			r.svc.EndSession(defaultSessionID)
			fmt.Fprintln(r.rl.Stdout(), ui.DescStyle.Render("Conversation reset."))
			continue
		}
		if line == "" {
			continue
		}

		turn, err := r.svc.HandleMessage(ctx, defaultSessionID, "cli", core.RolePatient, line)
		if err != nil {
			logger.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}
		r.printTurn(turn)
	}
}

func (r *ReadLine) printTurn(turn triage.Turn) {
	out := r.rl.Stdout()
	pv := turn.Explanation.Patient

	if turn.Result.RequiresEscalation {
		fmt.Fprintln(out, ui.AlertStyle.Render("⚠ "+turn.Result.Response))
	} else {
		fmt.Fprintln(out, ui.ResponseStyle.Render(turn.Result.Response))
	}

	if len(pv.Actions) > 0 {
		fmt.Fprintln(out, ui.TitleStyle.Render("What to do"))
		for _, a := range pv.Actions {
			fmt.Fprintf(out, "  • %s\n", a)
		}
	}

	risk := core.RiskLevel1
	if turn.Result.Context != nil {
		risk = turn.Result.Context.RiskLevel
	}
	status := fmt.Sprintf("[%s | confidence %s]", risk, pv.ConfidenceTier)
	fmt.Fprintln(out, ui.RiskStyle(risk).Render(status))
	fmt.Fprintln(out, ui.DescStyle.Render(pv.ConfidenceNote))
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
