package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"instagen/internal/store"
	"instagen/internal/types"
	"instagen/internal/wizard"
)

// waitSessionCmd blocks on the observer channel until the machine
// publishes the next snapshot. The update loop re-issues it after every
// delivery.
func waitSessionCmd(ch <-chan wizard.Session) tea.Cmd {
	return func() tea.Msg {
		session, ok := <-ch
		if !ok {
			return nil
		}
		return sessionMsg{session: session}
	}
}

func submitPromptCmd(machine *wizard.Machine, form types.PostForm) tea.Cmd {
	return func() tea.Msg {
		if err := machine.UpdateForm(form); err != nil {
			return actionErrMsg{err: err}
		}
		return actionErrMsg{err: machine.SubmitPrompt(context.Background())}
	}
}

func selectImageCmd(machine *wizard.Machine, index int) tea.Cmd {
	return func() tea.Msg {
		return actionErrMsg{err: machine.SelectImage(context.Background(), index)}
	}
}

func publishCmd(machine *wizard.Machine, variation types.CaptionVariation, imageIndex int) tea.Cmd {
	return func() tea.Msg {
		return actionErrMsg{err: machine.Publish(context.Background(), variation, imageIndex)}
	}
}

func retryCmd(machine *wizard.Machine) tea.Cmd {
	return func() tea.Msg {
		return actionErrMsg{err: machine.Retry(context.Background())}
	}
}

func checkReadyCmd(machine *wizard.Machine) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		return readyMsg{ready: machine.Ready(ctx)}
	}
}

func fetchHistoryCmd(history store.HistoryStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		records, err := history.List(ctx)
		return historyMsg{records: records, err: err}
	}
}

func clearHistoryCmd(history store.HistoryStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		return historyClearedMsg{err: history.Clear(ctx)}
	}
}

func loadCredentialsCmd(credentials store.CredentialsStore) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		creds, err := credentials.Load(ctx)
		return credentialsMsg{creds: creds, err: err}
	}
}

func saveCredentialsCmd(credentials store.CredentialsStore, creds types.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
		defer cancel()
		return credentialsSavedMsg{err: credentials.Save(ctx, creds)}
	}
}

func copyTextCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: clipboard.WriteAll(text)}
	}
}
