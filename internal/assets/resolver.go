package assets

// Resolver chains sources: a custom directory first when configured, then
// the embedded assets. A later source is consulted only when an earlier one
// does not have the asset; read and validation errors stop the lookup.
type Resolver struct {
	sources []*Source
}

// NewAssetResolver builds the chain for customBasePath. An empty path
// yields the embedded assets alone.
func NewAssetResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.sources = append(r.sources, custom)
	}
	r.sources = append(r.sources, NewEmbeddedLoader())
	return r, nil
}

func (r *Resolver) LoadTheme(name string) (string, error)    { return r.first(themeKind, name) }
func (r *Resolver) LoadTemplate(name string) (string, error) { return r.first(templateKind, name) }
func (r *Resolver) LoadStyle(name string) (string, error)    { return r.first(styleKind, name) }

// Sources returns the chain in lookup order.
func (r *Resolver) Sources() []*Source { return r.sources }

func (r *Resolver) first(k kind, name string) (string, error) {
	var err error
	for _, s := range r.sources {
		var content string
		if content, err = s.load(k, name); err == nil || !isNotFound(err) {
			return content, err
		}
	}
	return "", err
}

var _ AssetLoader = (*Resolver)(nil)
