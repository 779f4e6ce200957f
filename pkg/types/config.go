package types

import "errors"

// StoreConfig locates the backing file in a GitHub repository and
// carries the token used to read and write it. It is constructed once
// at startup and injected into the store client; nothing below the
// configuration layer reads ambient state.
type StoreConfig struct {
	Token   string `yaml:"token" json:"-"`
	Owner   string `yaml:"owner" json:"owner"`
	Repo    string `yaml:"repo" json:"repo"`
	Path    string `yaml:"path" json:"path"`
	Branch  string `yaml:"branch" json:"branch,omitempty"`     // empty = repository default branch
	BaseURL string `yaml:"base_url" json:"base_url,omitempty"` // empty = https://api.github.com
}

// StoreConfig validation errors.
var (
	ErrTokenEmpty = errors.New("store token must not be empty")
	ErrOwnerEmpty = errors.New("store owner must not be empty")
	ErrRepoEmpty  = errors.New("store repo must not be empty")
	ErrPathEmpty  = errors.New("store path must not be empty")
)

// Validate checks that the config is complete enough to reach the
// store. It returns a sentinel error from this package on failure.
func (c StoreConfig) Validate() error {
	if c.Token == "" {
		return ErrTokenEmpty
	}
	if c.Owner == "" {
		return ErrOwnerEmpty
	}
	if c.Repo == "" {
		return ErrRepoEmpty
	}
	if c.Path == "" {
		return ErrPathEmpty
	}
	return nil
}
