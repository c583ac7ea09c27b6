package config

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/jpalmerr/webui"
	"github.com/jpalmerr/webui/node"
)

// State is the state type served by the CLI.
type State = map[string]any

// BuildOptions converts parsed configuration into SDK options.
//
// The returned options do not include a logger or port override; callers
// append those.
func BuildOptions(cfg *Config, logger *slog.Logger) ([]webui.Option, error) {
	opts := []webui.Option{
		webui.WithPort(cfg.Port),
	}

	if cfg.Head != "" {
		opts = append(opts, webui.WithHead(cfg.Head))
	}

	if cfg.NoOpen {
		opts = append(opts, webui.WithNoOpen())
	}

	switch cfg.Update {
	case UpdateJSON:
		opts = append(opts, webui.WithJSONUpdates())
	case UpdateForm:
		opts = append(opts, webui.WithFormUpdates())
	}

	if cfg.SerializeUpdates {
		opts = append(opts, webui.WithSerializedUpdates())
	}

	if !cfg.Headless() {
		render, err := buildRender(cfg.Template, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, webui.WithRender(render))
	}

	return opts, nil
}

// buildRender compiles tmpl into a render function.
//
// Execution errors render as an escaped message in the page body, since a
// render function cannot fail.
func buildRender(tmpl string, logger *slog.Logger) (webui.RenderFunc[State], error) {
	t, err := template.New("page").Parse(tmpl)
	if err != nil {
		return nil, err
	}

	return func(state State) *node.Node {
		var buf bytes.Buffer
		if err := t.Execute(&buf, state); err != nil {
			logger.Error("template execution failed", "error", err)
			return node.Pre(node.Class("webui-error"), "template error: "+err.Error())
		}
		// html/template has already escaped the state values
		return node.Raw(buf.String())
	}, nil
}
