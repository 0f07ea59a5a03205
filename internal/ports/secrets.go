package ports

// SecretsPort resolves sensitive property values. Keys it cannot satisfy
// are left out of the returned map.
type SecretsPort interface {
	Query(keys []string) (map[string]string, error)
}
