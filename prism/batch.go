package prism

import "errors"

// Item is one payload of a batch, typically the contents of a file.
type Item struct {
	Name string
	Data []byte
}

// Result is the outcome for one [Item].  Data is nil whenever Err is set.
type Result struct {
	Name string
	Data []byte
	Err  error
}

// ItemFunc is called before each item of a batch is processed.
type ItemFunc func(index int, name string)

// EncryptBatch encrypts items one after another with the same password and
// selection.  Items are treated as binary: no redaction is applied.  A
// failing item does not stop the batch.  Items are processed sequentially,
// in slice order.
func (e *Engine) EncryptBatch(items []Item, password []byte, sel Selection, onItem ItemFunc, onLayer LayerFunc) []Result {
	return e.batch(items, onItem, func(data []byte) ([]byte, error) {
		return e.Encrypt(data, password, sel, false, onLayer)
	})
}

// DecryptBatch is the inverse of [Engine.EncryptBatch].
func (e *Engine) DecryptBatch(items []Item, password []byte, sel Selection, onItem ItemFunc, onLayer LayerFunc) []Result {
	return e.batch(items, onItem, func(data []byte) ([]byte, error) {
		return e.Decrypt(data, password, sel, onLayer)
	})
}

func (e *Engine) batch(items []Item, onItem ItemFunc, op func([]byte) ([]byte, error)) []Result {
	results := make([]Result, len(items))
	for i, it := range items {
		if onItem != nil {
			onItem(i, it.Name)
		}
		out, err := op(it.Data)
		results[i] = Result{Name: it.Name, Data: out, Err: err}
	}
	return results
}

// BatchErr joins the errors of failed results, or returns nil when every
// item succeeded.  Each error is prefixed with its item name.
func BatchErr(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, &ItemError{Name: r.Name, Err: r.Err})
		}
	}
	return errors.Join(errs...)
}

// ItemError associates a batch failure with the item that caused it.
type ItemError struct {
	Name string
	Err  error
}

func (e *ItemError) Error() string { return e.Name + ": " + e.Err.Error() }

func (e *ItemError) Unwrap() error { return e.Err }
