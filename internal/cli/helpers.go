package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/azstack-io/azstack/internal/config"
	"github.com/azstack-io/azstack/internal/engine"
	"github.com/azstack-io/azstack/internal/stacks"
)

// buildDeployment loads the ambient context and environment settings, then
// composes the full stack topology into a fresh deployment.
func buildDeployment() (*engine.Deployment, *config.Context, config.EnvironmentSettings, error) {
	ctx, err := config.LoadContext()
	if err != nil {
		return nil, nil, config.EnvironmentSettings{}, err
	}
	if err := ctx.ApplyOverrides(rootConfigFile); err != nil {
		return nil, nil, config.EnvironmentSettings{}, err
	}

	environment, err := targetEnvironment(ctx)
	if err != nil {
		return nil, nil, config.EnvironmentSettings{}, err
	}

	settings, err := config.Settings(environment)
	if err != nil {
		return nil, nil, config.EnvironmentSettings{}, err
	}

	location := settings.Location
	if ctx.Location != "" {
		location = ctx.Location
	}

	d := engine.NewDeployment(environment, location)
	if err := stacks.Compose(d, ctx, settings); err != nil {
		return nil, nil, config.EnvironmentSettings{}, err
	}
	return d, ctx, settings, nil
}

// renderExports prints resolved export values in name order.
func renderExports(w io.Writer, exports map[string]any) {
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s = %v\n", name, formatValue(exports[name]))
	}
}

// formatValue returns a human-readable representation of a value.
func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
