package reconcile

import (
	"scene-editor/internal/assets"
	"scene-editor/internal/sceneobj"
)

// contentKey identifies the build inputs of an object without reading its source bytes.
// Binary sources are never modified, so one backing array with one length is one content.
type contentKey struct {
	kind   sceneobj.Kind
	format string
	text   string
	src    string
	data   *byte
	n      int
}

func keyOf(o sceneobj.Object) contentKey {
	k := contentKey{kind: o.Kind, format: o.Format, text: o.Text, src: o.Src.Text, n: len(o.Src.Binary)}
	if k.n > 0 {
		k.data = &o.Src.Binary[0]
	}
	return k
}

type printMemo struct {
	key contentKey
	fp  string
}

// fingerprint returns assets.Fingerprint(o), hashing the source only when its inputs
// differ from the ones last seen for the id.
func (r *Reconciler) fingerprint(o sceneobj.Object) string {
	k := keyOf(o)
	if c, ok := r.prints[o.ID]; ok && c.key == k {
		return c.fp
	}
	fp := assets.Fingerprint(o)
	r.prints[o.ID] = printMemo{key: k, fp: fp}
	r.hashed++
	return fp
}
