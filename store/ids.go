package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/config"
	"github.com/google/uuid"
)

// kindPrefixes maps artifact kinds to their id prefixes. The prefix is fixed;
// the configured strategy only decides the suffix.
var kindPrefixes = map[artifact.Kind]string{
	artifact.KindRFC:      "RFC-",
	artifact.KindADR:      "ADR-",
	artifact.KindWorkItem: "WI-",
}

// NextID allocates a new artifact id using the configured strategy. For the
// sequential strategy, existing holds the ids already in use for the kind.
func NextID(strategy string, kind artifact.Kind, existing []string) (string, error) {
	prefix, ok := kindPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("no id prefix for kind %q", kind)
	}
	switch strategy {
	case config.StrategyUUID:
		return prefix + uuid.New().String(), nil
	case config.StrategySequential:
		max := 0
		for _, id := range existing {
			n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
			if err == nil && n > max {
				max = n
			}
		}
		return fmt.Sprintf("%s%04d", prefix, max+1), nil
	}
	return "", fmt.Errorf("unknown id strategy %q", strategy)
}

// NextClauseID allocates a clause id within an RFC from a slug, e.g.
// "error handling" becomes C-ERROR-HANDLING.
func NextClauseID(slug string, existing []string) (string, error) {
	id := "C-" + strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(slug), " ", "-"))
	for _, e := range existing {
		if e == id {
			return "", fmt.Errorf("clause id already in use: %s", id)
		}
	}
	return id, nil
}
