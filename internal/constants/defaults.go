package constants

// Defaults applied when no configuration overrides them
const (
	// EnvironmentName is the Amplify backend environment that owns the deployment bucket
	EnvironmentName = "main"

	// BucketSuffix is appended to the backend stack name to form the deployment bucket name
	BucketSuffix = "-deployment"

	// UserAgentAppID is reported in the S3 client's user agent
	UserAgentAppID = "team-idc"

	// ParameterPrefix is the SSM path segment under /{env}/ holding configuration
	ParameterPrefix = "bucket-hardener"
)

// AppNameKeywords select the Amplify app by case-insensitive substring match
var AppNameKeywords = []string{"team", "idc"}
