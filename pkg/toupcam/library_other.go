//go:build !(linux || darwin || freebsd)

package toupcam

func openLibrary(string) (*library, error) {
	return nil, ErrUnsupportedPlatform
}
