package service

// KV is the durable key/value storage the stores persist through.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}
