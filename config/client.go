package config

// ClientConfig contains configuration for the API client used by the CLI.
type ClientConfig struct {
	// APIURL is the base URL of the CRM API, including the version prefix.
	APIURL string `env:"API_URL" envDefault:"http://localhost:8080/api/v1"`

	// StateFile is the path of the persisted session file. Empty means the
	// default location under the user config directory.
	StateFile string `env:"STATE_FILE" envDefault:""`
}
