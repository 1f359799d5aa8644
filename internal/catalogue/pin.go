package catalogue

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/specialistvlad/palletforge/internal/model"
)

// validatePin checks that crate coordinates name a package and pin it to
// exactly one kind of source: a git repository (with at most one of tag or
// branch) or a registry version requirement.
func validatePin(c model.Coordinates) error {
	if c.Name == "" {
		return errors.New("dependency is missing a package name")
	}

	switch {
	case c.Git != "" && c.Version != "":
		return fmt.Errorf("dependency '%s' sets both git and version", c.Name)
	case c.Git != "":
		if c.Tag != "" && c.Branch != "" {
			return fmt.Errorf("dependency '%s' sets both tag and branch", c.Name)
		}
	case c.Version != "":
		if _, err := semver.NewConstraint(c.Version); err != nil {
			return fmt.Errorf("dependency '%s' has invalid version requirement %q: %w", c.Name, c.Version, err)
		}
		if c.Tag != "" || c.Branch != "" {
			return fmt.Errorf("dependency '%s' sets tag or branch without git", c.Name)
		}
	default:
		return fmt.Errorf("dependency '%s' has neither git nor version", c.Name)
	}
	return nil
}
