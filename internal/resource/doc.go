// Package resource throttles session transfers.
//
// A Controller combines two limits shared by every Save and Load of a DB:
//
//   - IO: a token bucket over bytes read from and written to the blob store
//   - Buffer: a weighted semaphore over blob bytes held by concurrent loads
//
// All methods handle a nil Controller, which enforces nothing:
//
//	rc := resource.NewController(resource.Config{IOBytesPerSec: 64 << 20})
//	release, err := rc.AcquireBuffer(ctx, blob.Size())
//	if err != nil {
//	    return err
//	}
//	defer release()
//	data, err := io.ReadAll(rc.Reader(ctx, r))
package resource
