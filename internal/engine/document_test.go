// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"testing"

	"github.com/matt-FFFFFF/engines/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const facebookConfig = `{
  "name": "facebook",
  "executable_path": "/opt/engines/facebook_engine/engine",
  "description": "Search stuff on Facebook.",
  "commands": [
    {
      "name": "user",
      "args": "-u $query",
      "description": "search a user"
    },
    {
      "name": "group",
      "args": "-g=$query"
    }
  ]
}`

func TestDecode(t *testing.T) {
	e, err := Decode([]byte(facebookConfig))
	require.NoError(t, err)

	assert.Equal(t, "facebook", e.Name())
	assert.Equal(t, "Search stuff on Facebook.", e.Description())
	assert.Equal(t, "/opt/engines/facebook_engine/engine", e.ExecutablePath())

	commands := e.ListCommands()
	assert.Len(t, commands, 2)
	assert.Contains(t, commands, "user")
	assert.Contains(t, commands, "group")
	assert.Equal(t, "search a user", commands["user"])
	assert.Empty(t, commands["group"])
}

func TestDecode_YAML(t *testing.T) {
	e, err := Decode([]byte(`
name: facebook
executable_path: /opt/engine
commands:
  - name: user
    args: -u $query
  - name: group
    args: -g=$query
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"group", "user"}, e.CommandNames())
}

func TestDecode_ExecuteUsesOptions(t *testing.T) {
	spawner := &fakeSpawner{out: &process.Output{Stdout: []byte("test output\n")}}

	e, err := Decode([]byte(facebookConfig), WithSpawner(spawner))
	require.NoError(t, err)

	out, err := e.Execute(context.Background(), "user", "user123")
	require.NoError(t, err)
	assert.Equal(t, "test output\n", out)
	assert.Equal(t, []string{"-u", "user123"}, spawner.calls[0].args)

	_, err = e.Execute(context.Background(), "search", "user123")
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Len(t, spawner.calls, 1)
}

func TestFromDocument_Errors(t *testing.T) {
	valid := CommandDocument{Name: "user", Args: "-u $query"}

	tests := []struct {
		name    string
		doc     EngineDocument
		wantErr error
	}{
		{
			name:    "empty engine name",
			doc:     EngineDocument{ExecutablePath: "/bin/engine", Commands: []CommandDocument{valid}},
			wantErr: ErrInvalidName,
		},
		{
			name:    "missing executable",
			doc:     EngineDocument{Name: "e", Commands: []CommandDocument{valid}},
			wantErr: ErrMissingExecutable,
		},
		{
			name: "invalid template in second command",
			doc: EngineDocument{Name: "e", ExecutablePath: "/bin/engine", Commands: []CommandDocument{
				valid,
				{Name: "group", Args: "-g $q"},
			}},
			wantErr: ErrInvalidTemplate,
		},
		{
			name: "empty command name",
			doc: EngineDocument{Name: "e", ExecutablePath: "/bin/engine", Commands: []CommandDocument{
				{Args: "$query"},
			}},
			wantErr: ErrInvalidName,
		},
		{
			name: "duplicate command name",
			doc: EngineDocument{Name: "e", ExecutablePath: "/bin/engine", Commands: []CommandDocument{
				valid,
				{Name: "user", Args: "--user $query"},
			}},
			wantErr: ErrDuplicateCommand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := FromDocument(tt.doc)
			require.ErrorIs(t, err, ErrConfigurationInvalid)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, e, "no partially built engine must be returned")
		})
	}
}

func TestFromDocument_NoCommands(t *testing.T) {
	e, err := FromDocument(EngineDocument{Name: "empty", ExecutablePath: "/bin/engine"})
	require.NoError(t, err)
	assert.Empty(t, e.ListCommands())
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte(`{"name": "x", "commands": {`))
	require.ErrorIs(t, err, ErrConfigurationInvalid)

	_, err = Decode([]byte(`{"name": "x", "executable_path": "/e", "commands": [{"name": "u", "args": "nothing"}]}`))
	require.ErrorIs(t, err, ErrConfigurationInvalid)
	require.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestFromDocument_DocumentAppliedAfterOptions(t *testing.T) {
	spawner := &fakeSpawner{out: &process.Output{}}
	doc := EngineDocument{
		Name:           "e",
		ExecutablePath: "/bin/engine",
		Description:    "doc desc",
		Commands:       []CommandDocument{{Name: "user", Args: "-u $query", Description: "from doc"}},
	}

	e, err := FromDocument(doc,
		WithSpawner(spawner),
		WithDescription("opt desc"),
		WithCommands(
			mustCommand(t, "user", "--seeded $query", "seeded"),
			mustCommand(t, "group", "-g $query", "seeded group"),
		),
	)
	require.NoError(t, err)

	assert.Equal(t, "doc desc", e.Description())
	assert.Equal(t, map[string]string{"user": "from doc", "group": "seeded group"}, e.ListCommands())

	_, err = e.Execute(context.Background(), "user", "q")
	require.NoError(t, err)
	require.Len(t, spawner.calls, 1)
	assert.Equal(t, []string{"-u", "q"}, spawner.calls[0].args)
}
