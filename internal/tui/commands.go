package tui

import (
	"context"
	"errors"
	"time"

	"codeberg.org/whbprompts/server/internal/gateway"
	"codeberg.org/whbprompts/server/internal/history"
	"codeberg.org/whbprompts/server/internal/logger"
	"codeberg.org/whbprompts/server/internal/usage"
	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 2500 * time.Millisecond

// store calls from key handlers are local and short
func contextBackground() context.Context {
	return context.Background()
}

func toast(text string) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{text: text}
	}
}

func clearToast(id int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{id: id}
	})
}

func showError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{err: err}
	}
}

// runs one metered generation, records it and copies it when enabled
func generateCmd(deps *Deps, image gateway.Image, opts gateway.Options) tea.Cmd {
	autoCopy := deps.Config.Settings.AutoCopy

	return func() tea.Msg {
		ctx := context.Background()

		outcome, err := deps.Governor.Generate(ctx, image, opts)

		var msg GeneratedMsg

		var persistErr *usage.PersistenceError
		if errors.As(err, &persistErr) {
			msg.warning = err
			err = nil
		}

		if err != nil {
			logger.Debug("generation rejected", "error", err)
			return GeneratedMsg{err: err}
		}

		msg.outcome = outcome

		entry, err := deps.Ledger.Append(ctx, history.Entry{
			ImageURL: image.DataURL(),
			Prompt:   outcome.Prompt,
		})
		msg.entry = entry
		if err != nil {
			logger.ErrorErr(err, "failed to save history entry")
			msg.warning = err
		}

		if autoCopy && deps.Clipboard != nil {
			if err := deps.Clipboard.WriteText(outcome.Prompt); err != nil {
				logger.Warn("auto copy failed", "error", err)
			} else {
				msg.copied = true
			}
		}

		return msg
	}
}

func refineCmd(deps *Deps, prompt, instruction string) tea.Cmd {
	timeout := deps.Config.API.Timeout.Duration

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		refined, err := deps.Refiner.Refine(ctx, prompt, instruction)
		if err != nil {
			return RefinedMsg{err: err}
		}

		return RefinedMsg{prompt: refined}
	}
}

func copyPrompt(deps *Deps, prompt string) tea.Cmd {
	if prompt == "" || deps.Clipboard == nil {
		return nil
	}

	return func() tea.Msg {
		if err := deps.Clipboard.WriteText(prompt); err != nil {
			return ErrorMsg{err: err}
		}

		return ToastMsg{text: "Sequence Copied"}
	}
}

func exportPrompt(deps *Deps, id, prompt string) tea.Cmd {
	if prompt == "" {
		return nil
	}

	dir := deps.Config.Export.Dir

	return func() tea.Msg {
		path, err := history.Export(dir, id, prompt, time.Now())
		if err != nil {
			return ErrorMsg{err: err}
		}

		return ToastMsg{text: "File Exported: " + path}
	}
}
