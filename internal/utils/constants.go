package utils

const (
	// ReadmeFileName is the document updated in every repository.
	ReadmeFileName = "README.md"
	// GitDirectoryName is the name of the Git repository directory. Entries starting with it are never rendered.
	GitDirectoryName = ".git"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// OrganizationDirectoryName holds the aggregate README at the organization root.
	OrganizationDirectoryName = ".github"

	// ConfigFileName is the configuration file looked up in the working directory.
	ConfigFileName = ".readmetree.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".readmetree"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal application errors.
	ApplicationExecutionFailedMessage = "readmetree failed"
)

// DefaultExclusions lists directory names skipped unless overridden.
var DefaultExclusions = []string{".git", ".venv", "__pycache__", ".pytest_cache", ".mypy_cache"}

// DefaultMaxDepth bounds rendered trees unless overridden.
const DefaultMaxDepth = 4
