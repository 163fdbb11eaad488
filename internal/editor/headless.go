package editor

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"scene-editor/internal/codec"
	"scene-editor/internal/export"
	"scene-editor/internal/sceneobj"
)

// maxSettlePasses bounds Settle; each pass can only trigger follow-up work through
// store patches, which converge after one extra pass.
const maxSettlePasses = 8

// Settle runs reconciliation passes until every started build has been applied and
// the store stopped changing. Used where no frame loop is running.
func (e *Editor) Settle() {
	for range maxSettlePasses {
		e.Sync()
		e.Wait()
		drained := e.Queue.Drain()
		if drained == 0 && e.store.Revision() == e.synced && !e.Reconciler.Stale() {
			return
		}
	}
	e.log.Warn("scene did not settle", "passes", maxSettlePasses)
}

// ExportFile loads the scene at in, builds it without a window and writes the visible
// entities to out. The font is only resolved when the scene has text.
func ExportFile(ctx context.Context, in, out string, f export.Format, opts Options) error {
	opts.Headless = true
	e := New(opts)
	defer e.Close()
	if err := e.Load(in); err != nil {
		return err
	}
	if slices.ContainsFunc(e.store.Snapshot().Objects, func(o sceneobj.Object) bool { return o.Kind == sceneobj.Text3D }) {
		if err := e.LoadFontNow(ctx); err != nil {
			return err
		}
	}
	e.Settle()
	if st := e.Reconciler.Stats(); st.Failed > 0 {
		e.log.Warn("some objects could not be built and are left out", "failed", st.Failed)
	}
	return e.Export(out, f)
}

// Summary decodes a scene payload and describes it: object count per kind, sorted by kind.
func Summary(data []byte) (string, error) {
	objs, err := codec.Decode(data)
	if err != nil {
		return "", err
	}
	counts := make(map[sceneobj.Kind]int)
	hidden := 0
	for _, o := range objs {
		counts[o.Kind]++
		if !o.Visible() {
			hidden++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d objects", len(objs))
	if hidden > 0 {
		fmt.Fprintf(&b, " (%d hidden)", hidden)
	}
	b.WriteString("\n")
	for _, k := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(&b, "  %-16s %d\n", k, counts[k])
	}
	return b.String(), nil
}
