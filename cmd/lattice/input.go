package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// addInputFlags registers the flags shared by commands that read a canvas.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("canvas", "", "Read the canvas with this ID from the configured store instead of a file")
	cmd.Flags().Int("from", domain.CurrentSnapshotVersion, "Schema version of a bare snapshot file (envelopes carry their own)")
}

// usesStore reports whether the command reads from the snapshot store.
func usesStore(cmd *cobra.Command) bool {
	id, _ := cmd.Flags().GetString("canvas")
	return id != ""
}

// readCanvas loads the canvas named by --canvas, or the snapshot file in
// args[0] ("-" or no argument reads stdin). Files are migrated to the
// current schema on the way in.
func readCanvas(ctx context.Context, cmd *cobra.Command, a *app, args []string) (*domain.Snapshot, string, error) {
	if id, _ := cmd.Flags().GetString("canvas"); id != "" {
		snap, err := a.sessions.Load(ctx, id)
		return snap, id, err
	}

	env, name, err := readEnvelope(cmd, args)
	if err != nil {
		return nil, "", err
	}
	return a.engine.Migrate(ctx, env.Snapshot, env.Version), name, nil
}

// readEnvelope reads a snapshot file (JSON, or YAML by extension). An object holding both "version"
// and "snapshot" is an envelope; anything else is a bare snapshot body at
// the --from version.
func readEnvelope(cmd *cobra.Command, args []string) (*domain.Envelope, string, error) {
	var (
		data []byte
		err  error
		name = "stdin"
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		data, err = os.ReadFile(args[0])
		if err == nil && isYAML(args[0]) {
			data, err = yamlToJSON(data)
		}
	}
	if err != nil {
		return nil, "", fmt.Errorf("read snapshot: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, "", errors.New("read snapshot: empty input")
	}

	var head map[string]json.RawMessage
	if err := json.Unmarshal(data, &head); err == nil {
		rawVersion, hasVersion := head["version"]
		body, hasBody := head["snapshot"]
		if hasVersion && hasBody {
			var version int
			if err := json.Unmarshal(rawVersion, &version); err != nil {
				return nil, "", fmt.Errorf("read snapshot: version: %w", err)
			}
			return &domain.Envelope{Version: version, Snapshot: body}, name, nil
		}
	}

	from, _ := cmd.Flags().GetInt("from")
	return &domain.Envelope{Version: from, Snapshot: data}, name, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// yamlToJSON re-encodes a YAML document so the migrator sees the same JSON
// body a JSON file would produce.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
