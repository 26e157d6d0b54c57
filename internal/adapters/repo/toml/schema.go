package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int            `toml:"version"`
	Session *sessionSchema `toml:"session,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type sessionSchema struct {
	TokenRef  string     `toml:"token_ref"`
	CreatedAt string     `toml:"created_at"`
	User      userSchema `toml:"user"`
}

type userSchema struct {
	ID        string `toml:"id,omitempty"`
	Name      string `toml:"name,omitempty"`
	FirstName string `toml:"first_name,omitempty"`
	LastName  string `toml:"last_name,omitempty"`
	Email     string `toml:"email"`
	Mobile    string `toml:"mobile,omitempty"`
	IsAdmin   bool   `toml:"is_admin,omitempty"`
}
