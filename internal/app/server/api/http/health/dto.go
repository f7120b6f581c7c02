package health

// Input represents the input for health check endpoint
type Input struct{}

// Output represents the output for health check endpoint
type Output struct {
	Status int
	Body   Response
}

// Response represents the health check response
type Response struct {
	OK      bool   `json:"ok" doc:"Whether the service accepts pushes"`
	Storage string `json:"storage" example:"postgres" doc:"Document storage backend"`
}
