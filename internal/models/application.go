package models

// Application is an Amplify app as returned by the app registry
type Application struct {
	Name  string `json:"name"`
	AppID string `json:"app_id"`
}

// Environment is an Amplify backend environment
type Environment struct {
	AppID     string `json:"app_id"`
	Name      string `json:"name"`       // Environment name (e.g. main)
	StackName string `json:"stack_name"` // CloudFormation stack backing the environment
}

// Bucket returns the deployment bucket name derived from the stack name.
// The bucket is never looked up; the name is fixed by convention.
func (e Environment) Bucket(suffix string) string {
	return e.StackName + suffix
}
