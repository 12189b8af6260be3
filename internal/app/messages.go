package app

import (
	"instagen/internal/types"
	"instagen/internal/wizard"
)

// sessionMsg delivers one workflow snapshot from the observer channel.
type sessionMsg struct {
	session wizard.Session
}

// actionErrMsg carries a local validation error from a machine call.
type actionErrMsg struct {
	err error
}

type readyMsg struct {
	ready bool
}

type historyMsg struct {
	records []*types.HistoryRecord
	err     error
}

type historyClearedMsg struct {
	err error
}

type credentialsMsg struct {
	creds types.Credentials
	err   error
}

type credentialsSavedMsg struct {
	err error
}

type clipboardMsg struct {
	err error
}
