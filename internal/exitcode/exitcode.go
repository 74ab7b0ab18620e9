package exitcode

const (
	Success            = 0
	UsageError         = 1
	SchemaTypeError    = 2
	MissingColumns     = 3
	ConfigurationError = 4
	DatasetError       = 5
	DBError            = 6
)
