package interfaces

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes resolved static files into deterministic cache keys
type KeyBuilder interface {
	Build(route string, filePath string) (string, error)
}
