// Package exception provides the error kinds raised by the Web Audio API,
// carried as a name and legacy code pair instead of distinct Go types.
//
// Use errors.Is with the package sentinels to classify an error:
//
//	if errors.Is(err, exception.ErrInvalidAccess) {
//		// destination belongs to another context
//	}
package exception
