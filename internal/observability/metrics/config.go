package metrics

// Config configures metrics instruments.
type Config struct {
	ServiceName string
	Environment string
}
