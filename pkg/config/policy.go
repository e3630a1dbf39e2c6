package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"graylogsync/internal/core/domain"
	apperrors "graylogsync/pkg/errors"
	"graylogsync/pkg/validation"
)

// DirectoryConfig is the `script` block of the policy file.
type DirectoryConfig struct {
	ServerURI    string   `yaml:"server_uri"`
	BindDN       string   `yaml:"bind_dn"`
	BindPassword string   `yaml:"bind_passwd"`
	SearchBaseDN string   `yaml:"search_base_dn"`
	GroupCN      string   `yaml:"group_cn"`
	Attributes   []string `yaml:"attributes"`
}

// Policy is the YAML policy file: directory connection plus the
// group and user stream grants.
type Policy struct {
	Script        DirectoryConfig `yaml:"script"`
	domain.Policy `yaml:",inline"`
}

// LoadPolicy reads and validates the YAML policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read policy file %s", path))
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes policy YAML and applies env overrides.
func ParsePolicy(data []byte) (*Policy, error) {
	p := &Policy{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInvalidConfig, "failed to unmarshal policy yaml")
	}
	if p.Groups == nil {
		p.Groups = map[string]*domain.StreamPolicy{}
	}
	if p.Users == nil {
		p.Users = map[string]*domain.StreamPolicy{}
	}

	p.applyEnvOverrides()
	if err := p.Validate(); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInvalidConfig, "invalid policy")
	}
	return p, nil
}

// Validate checks the directory block and stream ids. Roles are not checked
// here: an unknown role grants nothing and is not an error.
func (p *Policy) Validate() error {
	if err := validation.ValidateLDAPURL(p.Script.ServerURI); err != nil {
		return fmt.Errorf("script.server_uri: %w", err)
	}
	if err := validation.ValidateNonEmptyString(p.Script.SearchBaseDN, "script.search_base_dn"); err != nil {
		return err
	}
	if err := validation.ValidateGroupPattern(p.Script.GroupCN); err != nil {
		return fmt.Errorf("script.group_cn: %w", err)
	}

	check := func(kind string, entries map[string]*domain.StreamPolicy) error {
		for name, entry := range entries {
			if entry == nil {
				continue
			}
			for i, grant := range entry.Streams {
				if err := validation.ValidateStreamID(string(grant.ID)); err != nil {
					return fmt.Errorf("%s.%s.streams[%d].id: %w", kind, name, i, err)
				}
			}
		}
		return nil
	}
	if err := check("groups", p.Groups); err != nil {
		return err
	}
	return check("users", p.Users)
}

func (p *Policy) applyEnvOverrides() {
	if passwd := os.Getenv("GRAYLOGSYNC_BIND_PASSWD"); passwd != "" {
		p.Script.BindPassword = passwd
	}
}
