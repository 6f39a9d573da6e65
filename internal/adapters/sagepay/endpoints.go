package sagepay

// Environment selects the Sage Pay sandbox or production API
type Environment string

const (
	EnvironmentTest Environment = "test"
	EnvironmentLive Environment = "live"
)

const (
	TestBaseURL = "https://pi-test.sagepay.com/api/v1"
	LiveBaseURL = "https://pi-live.sagepay.com/api/v1"
)

// EnvironmentFor maps the developer mode setting to an environment.
// Only "false" or an unset value selects live; every other value selects test.
func EnvironmentFor(developerMode string) Environment {
	if developerMode == "" || developerMode == "false" {
		return EnvironmentLive
	}
	return EnvironmentTest
}

// Endpoints holds the four URLs the adapter posts to
type Endpoints struct {
	Process    string
	Refund     string
	Identifier string
	Session    string
}

// EndpointsFor returns the endpoint set of an environment
func EndpointsFor(env Environment) Endpoints {
	if env == EnvironmentTest {
		return EndpointsFromBase(TestBaseURL)
	}
	return EndpointsFromBase(LiveBaseURL)
}

// EndpointsFromBase builds the endpoint set under a base URL (useful for stubs)
func EndpointsFromBase(baseURL string) Endpoints {
	return Endpoints{
		Process:    baseURL + "/transactions",
		Refund:     baseURL + "/transactions",
		Identifier: baseURL + "/card-identifiers",
		Session:    baseURL + "/merchant-session-keys",
	}
}
