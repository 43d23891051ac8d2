package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/gaiacmd"
	appcontext "github.com/agentstation/gaiacmd/cmd/gaiacmd/context"
	"github.com/agentstation/gaiacmd/pkg/coords"
	"github.com/agentstation/gaiacmd/pkg/errors"
)

type staticNames map[string]coords.Coordinate

func (s staticNames) Resolve(_ context.Context, name string) (coords.Coordinate, error) {
	if c, ok := s[name]; ok {
		return c, nil
	}
	return coords.Coordinate{}, errors.NewNotFoundError("object", name)
}

func newMock(t *testing.T, stdout *bytes.Buffer, format string) *appcontext.MockContext {
	t.Helper()
	client, err := gaiacmd.New(gaiacmd.WithNameResolver(staticNames{
		"NGC 2682": coords.ICRS(132.846, 11.814),
	}))
	require.NoError(t, err)

	return &appcontext.MockContext{
		ClientFunc:       func() (gaiacmd.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return format },
		StdoutFunc:       func() io.Writer { return stdout },
	}
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantRA  float64
		wantDec float64
	}{
		{"name joined from args", []string{"NGC", "2682"}, 132.846, 11.814},
		{"sexagesimal", []string{"08:51:18 +11:48:00"}, 132.825, 11.8},
		{"degrees", []string{"132.825", "11.8"}, 132.825, 11.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			cmd := NewCommand(newMock(t, &stdout, "json"))
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.ExecuteContext(context.Background()))

			var got struct {
				Object string            `json:"object"`
				Center coords.Coordinate `json:"center"`
			}
			require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
			assert.InDelta(t, tt.wantRA, got.Center.RA, 1e-9)
			assert.InDelta(t, tt.wantDec, got.Center.Dec, 1e-9)
			assert.Equal(t, coords.FrameICRS, got.Center.Frame)
		})
	}
}

func TestResolveCommand_Table(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewCommand(newMock(t, &stdout, "table"))
	cmd.SetArgs([]string{"NGC 2682"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stdout.String(), "132.846000")
}

func TestResolveCommand_UnknownName(t *testing.T) {
	cmd := NewCommand(newMock(t, &bytes.Buffer{}, "json"))
	cmd.SilenceUsage, cmd.SilenceErrors = true, true
	cmd.SetArgs([]string{"Nowhere 1"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
