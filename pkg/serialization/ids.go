package serialization

import (
	"fmt"
	"strings"
	"unicode"

	gferrors "github.com/matzehuels/graphfile/pkg/errors"
	"github.com/matzehuels/graphfile/pkg/project"
)

// connectionArrow separates the two ends of a connection in the v3 and v4
// connection strings.
const connectionArrow = "->"

// checkGraphIDs rejects graphs whose node and port IDs the connection
// strings cannot carry unambiguously. Node IDs follow [gferrors.ValidateID]
// and must not contain the arrow, so the first "/" and the first "->" are
// always separators. Output ports must not contain the arrow. Both ports
// must be non-empty.
func checkGraphIDs(g *project.NodeGraph) error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i, n := range g.Nodes {
		if n == nil {
			return gferrors.New(gferrors.ErrCodeInvalidDocument, "node %d is nil", i)
		}
		if err := checkNodeID(n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return gferrors.Wrap(gferrors.ErrCodeInvalidDocument, project.ErrDuplicateNodeID, "node %s", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for _, c := range g.Connections {
		if err := checkNodeID(c.OutputNodeID); err != nil {
			return fmt.Errorf("connection %s: %w", c, err)
		}
		if err := checkNodeID(c.InputNodeID); err != nil {
			return fmt.Errorf("connection %s: %w", c, err)
		}
		if c.OutputID == "" || strings.Contains(c.OutputID, connectionArrow) {
			return gferrors.New(gferrors.ErrCodeInvalidDocument, "connection %s: output port must be non-empty and must not contain %q", c, connectionArrow)
		}
		if c.InputID == "" {
			return gferrors.New(gferrors.ErrCodeInvalidDocument, "connection %s: input port must be non-empty", c)
		}
	}
	return nil
}

func checkNodeID(id string) error {
	if err := gferrors.ValidateID(id); err != nil {
		return gferrors.Wrap(gferrors.ErrCodeInvalidDocument, err, "node ID %q", id)
	}
	if strings.Contains(id, connectionArrow) {
		return gferrors.New(gferrors.ErrCodeInvalidDocument, "node ID %q must not contain %q", id, connectionArrow)
	}
	return nil
}

// checkNodeTypeV4 rejects types the v4 node key cannot hold: they must be
// non-empty with no whitespace or double quotes.
func checkNodeTypeV4(n *project.Node) error {
	if n.Type == "" {
		return gferrors.New(gferrors.ErrCodeInvalidDocument, "node %s: type must not be empty", n.ID)
	}
	if strings.ContainsFunc(n.Type, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) || r == '"' }) {
		return gferrors.New(gferrors.ErrCodeInvalidDocument, "node %s: type %q must not contain whitespace or quotes", n.ID, n.Type)
	}
	return nil
}
