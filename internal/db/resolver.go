package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pragermh/mol-mod-import/internal/config"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Note: Database flag is excluded from this check because it can be used to override
// the database specified in a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AzureFlags represents Azure Entra ID CLI flags.
// These override the corresponding AZURE_* environment variables.
// Note: Client secret is NOT included as a CLI flag for security reasons.
// Use AZURE_CLIENT_SECRET environment variable instead.
type AzureFlags struct {
	Enabled  bool   // --azure
	TenantID string // Overrides AZURE_TENANT_ID
	ClientID string // Overrides AZURE_CLIENT_ID
}

// IsEmpty returns true if no Azure flags were provided.
func (a *AzureFlags) IsEmpty() bool {
	return a == nil || (!a.Enabled && a.TenantID == "" && a.ClientID == "")
}

// AWSFlags represents AWS RDS IAM authentication CLI flags.
type AWSFlags struct {
	Enabled bool   // --aws-iam
	Region  string // Overrides AWS_REGION
}

// GoogleFlags represents Google Cloud SQL IAM authentication CLI flags.
type GoogleFlags struct {
	Enabled  bool   // --google-iam
	Instance string // project:region:instance connection name
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string // PostgreSQL server host
	PGPORT       string // PostgreSQL server port
	PGUSER       string // PostgreSQL username
	PGPASSWORD   string // PostgreSQL password (discouraged, use .pgpass instead)
	PGDATABASE   string // Default database name
	PGSSLMODE    string // SSL mode
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	// Azure Entra ID environment variables (Azure SDK standard names)
	AZURE_TENANT_ID     string // Azure AD tenant/directory ID
	AZURE_CLIENT_ID     string // Azure AD application/client ID
	AZURE_CLIENT_SECRET string // Azure AD client secret (for Service Principal auth)

	// AWS_REGION is the region used for RDS IAM token generation.
	AWS_REGION string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
// This follows standard PostgreSQL client behavior and cloud SDK conventions.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
	}
}

// HasAzureCredentials returns true if Azure Entra ID environment variables are set.
func (e *EnvVars) HasAzureCredentials() bool {
	return e.AZURE_TENANT_ID != "" || e.AZURE_CLIENT_ID != ""
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection) - if provided, parse and use directly
//  2. Granular flags (-h, -p, -U, -d) - if any provided, build config from flags
//  3. DATABASE_URL environment variable - fallback if no granular params
//  4. Environment variables (PGHOST, PGPORT, etc.)
//  5. asvdb.yaml project config
//  6. Defaults (localhost:5432, prefer SSL)
//
// Cloud authentication:
// Azure flags or AZURE_* environment variables switch the config to Entra ID auth.
// AWS and Google IAM flags do the same for their token-based mechanisms.
// CLI flags take precedence over environment variables.
//
// Conflict Detection:
// Returns an error if BOTH --connection flag AND granular flags are provided.
// This prevents ambiguity and ensures clear user intent.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	azureFlags *AzureFlags,
	awsFlags *AWSFlags,
	googleFlags *GoogleFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*asvdb.ConnectionConfig, error) {
	// Validate inputs
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if azureFlags == nil {
		azureFlags = &AzureFlags{}
	}
	if awsFlags == nil {
		awsFlags = &AWSFlags{}
	}
	if googleFlags == nil {
		googleFlags = &GoogleFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	// Check for conflicts: connection string XOR granular flags
	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/asvdb\"\n" +
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d mydb\n" +
				"  3. Environment variable: export DATABASE_URL=postgresql://user@localhost:5432/asvdb",
		)
	}

	var cfg *asvdb.ConnectionConfig
	var err error

	// Path 1: Connection string provided via --connection flag
	if connStringFlag != "" {
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	} else if granularFlags.IsEmpty() && envVars.DATABASE_URL != "" {
		// Path 2: DATABASE_URL environment variable (if no granular flags)
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	} else {
		// Path 3: Granular flags + environment variables with precedence
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}

	if err != nil {
		return nil, err
	}

	if err := applyCloudAuth(cfg, azureFlags, awsFlags, googleFlags, envVars, projectConfig); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyCloudAuth sets cloud authentication on the config if credentials are available.
// CLI flags take precedence over environment variables, which take precedence
// over the project config.
func applyCloudAuth(
	cfg *asvdb.ConnectionConfig,
	azure *AzureFlags,
	aws *AWSFlags,
	google *GoogleFlags,
	env *EnvVars,
	projectConfig *config.ProjectConfig,
) error {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	// Determine tenant ID: flag > env var > asvdb.yaml
	tenantID := azure.TenantID
	if tenantID == "" {
		tenantID = env.AZURE_TENANT_ID
	}
	if tenantID == "" {
		tenantID = pc.AzureTenantID
	}

	// Determine client ID: flag > env var > asvdb.yaml
	clientID := azure.ClientID
	if clientID == "" {
		clientID = env.AZURE_CLIENT_ID
	}
	if clientID == "" {
		clientID = pc.AzureClientID
	}

	azureRequested := azure.Enabled || tenantID != "" || clientID != "" || pc.AuthMethod == "azure"
	awsRequested := aws.Enabled || pc.AuthMethod == "aws"
	googleRequested := google.Enabled || google.Instance != "" || pc.AuthMethod == "google"

	requested := 0
	for _, b := range []bool{azureRequested, awsRequested, googleRequested} {
		if b {
			requested++
		}
	}
	if requested > 1 {
		return fmt.Errorf("conflicting authentication methods: choose one of Azure Entra ID, AWS IAM, or Google Cloud SQL IAM")
	}

	switch {
	case azureRequested:
		cfg.AuthMethod = asvdb.AuthMethodAzureEntraID
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		// Client secret only comes from env var (no flag for security)
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case awsRequested:
		cfg.AuthMethod = asvdb.AuthMethodAWSIAM
		cfg.AWSRegion = aws.Region
		if cfg.AWSRegion == "" {
			cfg.AWSRegion = env.AWS_REGION
		}
		if cfg.AWSRegion == "" {
			cfg.AWSRegion = pc.AWSRegion
		}
		if cfg.AWSRegion == "" {
			return fmt.Errorf("AWS IAM authentication requires a region (--aws-region flag or $AWS_REGION)")
		}
	case googleRequested:
		cfg.AuthMethod = asvdb.AuthMethodGoogleIAM
		cfg.GoogleInstance = google.Instance
		if cfg.GoogleInstance == "" {
			cfg.GoogleInstance = pc.GoogleInstance
		}
		if cfg.GoogleInstance == "" {
			return fmt.Errorf("Google Cloud SQL IAM authentication requires an instance connection name (project:region:instance)")
		}
	}

	return nil
}

// resolveFromConnectionString parses a connection string and applies environment
// fallbacks for parameters it leaves unset (following PostgreSQL standard behavior).
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*asvdb.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	// Apply PGSSLMODE from environment if not specified in connection string.
	// This follows libpq behavior where environment variables serve as
	// fallbacks for connection string parameters.
	if cfg.SSLMode == "" && envVars != nil && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds ConnectionConfig from granular flags and environment variables.
//
// Precedence for each parameter (following PostgreSQL standards):
//  1. CLI flag (highest priority)
//  2. Environment variable
//  3. asvdb.yaml project config
//  4. Default value (lowest priority)
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*asvdb.ConnectionConfig, error) {
	cfg := &asvdb.ConnectionConfig{
		AuthMethod:       asvdb.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	// Host: flag > PGHOST > asvdb.yaml > default
	cfg.Host = flags.Host
	if cfg.Host == "" {
		cfg.Host = envVars.PGHOST
	}
	if cfg.Host == "" {
		cfg.Host = pc.Host
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}

	// Port: flag > PGPORT > asvdb.yaml > default
	if flags.Port != 0 {
		cfg.Port = flags.Port
	} else if envVars.PGPORT != "" {
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer", envVars.PGPORT)
		}
		cfg.Port = port
	} else if pc.Port != 0 {
		cfg.Port = pc.Port
	} else {
		cfg.Port = 5432
	}

	// Username: flag > PGUSER > asvdb.yaml > current OS user
	cfg.Username = flags.Username
	if cfg.Username == "" {
		cfg.Username = envVars.PGUSER
	}
	if cfg.Username == "" {
		cfg.Username = pc.Username
	}
	if cfg.Username == "" {
		if currentUser := os.Getenv("USER"); currentUser != "" {
			cfg.Username = currentUser
		} else if currentUser := os.Getenv("USERNAME"); currentUser != "" {
			cfg.Username = currentUser
		}
	}

	cfg.Password = envVars.PGPASSWORD

	// Database: flag > PGDATABASE > asvdb.yaml
	cfg.Database = flags.Database
	if cfg.Database == "" {
		cfg.Database = envVars.PGDATABASE
	}
	if cfg.Database == "" {
		cfg.Database = pc.Database
	}

	// SSLMode: flag > PGSSLMODE > asvdb.yaml > default
	cfg.SSLMode = flags.SSLMode
	if cfg.SSLMode == "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = pc.SSLMode
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}
