package ports

// AliasResolver maps files to the import specifiers that reach them.
//
//go:generate go run go.uber.org/mock/mockgen -source=alias.go -destination=mocks/mock_alias.go -package=mocks
type AliasResolver interface {
	// Aliases returns the alias specifiers for path.
	Aliases(path string) ([]string, error)

	// BaseImport returns the specifier relative to the base URL, or "" when none applies.
	BaseImport(path string) (string, error)
}
