package config

type Limits struct {
	MaxContainers   int
	DefaultTail     int
	ColorRetryLimit int
	ReadChunkBytes  int
	MaxLineBytes    int
}

func DefaultLimits() Limits {
	return Limits{
		MaxContainers:   8,
		DefaultTail:     10,
		ColorRetryLimit: 64,
		ReadChunkBytes:  4096,
		MaxLineBytes:    65536,
	}
}
