package app

import (
	appcontext "github.com/agentstation/gaiacmd/cmd/gaiacmd/context"
)

// Ensure App implements the command context at compile time.
var _ appcontext.Context = (*App)(nil)
