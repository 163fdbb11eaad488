package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/pflag"

	"scene-editor/internal/export"
	"scene-editor/internal/manip"
	"scene-editor/internal/sceneobj"
)

// Editor is what the scene commands act on besides the object store.
type Editor interface {
	Store() *sceneobj.Store
	Save(path string) error
	Load(path string) error
	Export(path string, f export.Format) error
	// Import adds a media object from a file path or URL. An empty kind is inferred
	// from the content.
	Import(src string, kind sceneobj.Kind) error
	// Play toggles playback of an Audio object.
	Play(id string) error
	// Focus moves the camera to the selection.
	Focus() bool
	SetGrid(on bool)
	SetFPS(on bool)
	// Nudge applies a transform delta to the selection through the manipulator.
	Nudge(mode manip.Mode, d mgl32.Vec3) bool
}

// Register adds the scene editing commands to r.
func Register(r *Registry, e Editor) {
	s := e.Store()

	addFlags := pflag.NewFlagSet("add", pflag.ContinueOnError)
	addColor := addFlags.String("color", "", "hex color, e.g. #ff8800")
	addName := addFlags.String("name", "", "object name")
	r.Register("add", "add <cube|sphere|plane|pyramid|cylinder|skybox> [--color hex] [--name name]", addFlags, func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		kind, ok := ParseKind(args[0])
		if !ok || kind.IsMedia() || kind == sceneobj.ParticleSystem || kind == sceneobj.Text3D {
			return fmt.Errorf("add: %q is not a primitive; use import, particle or text", args[0])
		}
		o, ok := s.Add(kind, sceneobj.AddOptions{Name: *addName})
		if !ok {
			return fmt.Errorf("add: the scene already has a %s", kind)
		}
		if *addColor != "" {
			s.Patch(o.ID, func(o *sceneobj.Object) { o.Color = *addColor })
		}
		r.Printf("added %s (%s)\n", o.Name, o.ID)
		return nil
	})

	r.Register("particle", "particle <fire|rain|snow|steam|magic|water|fog>", nil, func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		pt, ok := ParseParticleType(args[0])
		if !ok {
			return fmt.Errorf("particle: unknown type %q", args[0])
		}
		o := s.AddParticle(pt)
		r.Printf("added %s (%s)\n", o.Name, o.ID)
		return nil
	})

	textFlags := pflag.NewFlagSet("text", pflag.ContinueOnError)
	textColor := textFlags.String("color", "", "hex color")
	r.Register("text", `text [--color hex] <words...>`, textFlags, func(args []string) error {
		text := strings.Join(args, " ")
		if strings.TrimSpace(text) == "" {
			return ErrUsage
		}
		o, _ := s.Add(sceneobj.Text3D, sceneobj.AddOptions{Text: text})
		if *textColor != "" {
			s.Patch(o.ID, func(o *sceneobj.Object) { o.Color = *textColor })
		}
		r.Printf("added %s (%s)\n", o.Name, o.ID)
		return nil
	})

	r.Register("delete", "delete [id|name]", nil, withTarget(s, func(o sceneobj.Object) error {
		s.Delete(o.ID)
		r.Printf("deleted %s\n", o.Name)
		return nil
	}))
	r.Register("dup", "dup [id|name]", nil, withTarget(s, func(o sceneobj.Object) error {
		c, ok := s.Duplicate(o.ID)
		if !ok {
			return fmt.Errorf("dup: %s cannot be duplicated", o.Name)
		}
		r.Printf("added %s (%s)\n", c.Name, c.ID)
		return nil
	}))
	r.Register("hide", "hide [id|name]", nil, withTarget(s, func(o sceneobj.Object) error {
		s.SetVisible(o.ID, false)
		return nil
	}))
	r.Register("show", "show [id|name]", nil, withTarget(s, func(o sceneobj.Object) error {
		s.SetVisible(o.ID, true)
		return nil
	}))
	r.Register("play", "play [id|name]", nil, withTarget(s, func(o sceneobj.Object) error {
		s.Select(o.ID)
		return e.Play(o.ID)
	}))

	r.Register("select", "select [id|name]", nil, func(args []string) error {
		if len(args) == 0 {
			s.Select("")
			return nil
		}
		o, err := Resolve(s.Snapshot(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		s.Select(o.ID)
		return nil
	})

	r.Register("list", "list", nil, func([]string) error {
		st := s.Snapshot()
		for _, o := range st.Objects {
			mark := " "
			if o.ID == st.Selected {
				mark = "*"
			}
			vis := ""
			if !o.Visible() {
				vis = " (hidden)"
			}
			r.Printf("%s %s  %s  %s%s\n", mark, o.ID, o.Kind, o.Name, vis)
		}
		return nil
	})

	r.Register("tool", "tool <move|rotate|scale|none>", nil, func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		t, ok := ParseTool(args[0])
		if !ok {
			return fmt.Errorf("tool: unknown tool %q", args[0])
		}
		s.SetTool(t)
		return nil
	})

	r.Register("sky", "sky <hours 0-24>", nil, func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		h, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return fmt.Errorf("sky: %w", err)
		}
		s.SetSkyTime(float32(h))
		return nil
	})

	r.Register("move", "move <dx> <dy> <dz>", nil, nudge(e, manip.Translate, 1))
	r.Register("rotate", "rotate <dx> <dy> <dz> (degrees)", nil, nudge(e, manip.Rotate, mgl32.DegToRad(1)))
	r.Register("scale", "scale <factor> | scale <fx> <fy> <fz>", nil, func(args []string) error {
		if len(args) == 1 {
			args = []string{args[0], args[0], args[0]}
		}
		return nudge(e, manip.Scale, 1)(args)
	})

	r.Register("save", "save <file.cyb>", nil, oneArg(e.Save))
	r.Register("load", "load <file.cyb>", nil, oneArg(e.Load))

	exportFlags := pflag.NewFlagSet("export", pflag.ContinueOnError)
	exportFormat := exportFlags.StringP("format", "f", "", "glb or obj (default from the file extension)")
	r.Register("export", "export [--format glb|obj] <file>", exportFlags, func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		name := *exportFormat
		if name == "" {
			name = strings.TrimPrefix(strings.ToLower(extension(args[0])), ".")
		}
		f, err := export.ParseFormat(name)
		if err != nil {
			return err
		}
		return e.Export(args[0], f)
	})

	importFlags := pflag.NewFlagSet("import", pflag.ContinueOnError)
	importKind := importFlags.StringP("kind", "k", "", "image, video, audio or model (default from the content)")
	r.Register("import", "import [--kind image|video|audio|model] <path|url>", importFlags, func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		var kind sceneobj.Kind
		if *importKind != "" {
			k, ok := ParseKind(*importKind)
			if !ok || !k.IsMedia() {
				return fmt.Errorf("import: %q is not a media kind", *importKind)
			}
			kind = k
		}
		return e.Import(args[0], kind)
	})

	r.Register("focus", "focus", nil, func([]string) error {
		if !e.Focus() {
			return fmt.Errorf("focus: nothing selected")
		}
		return nil
	})
	r.Register("grid", "grid <on|off>", nil, toggle(e.SetGrid))
	r.Register("fps", "fps <on|off>", nil, toggle(e.SetFPS))

	r.Register("help", "help [command]", nil, func(args []string) error {
		if len(args) == 1 {
			c, ok := r.Lookup(args[0])
			if !ok {
				return fmt.Errorf("help: unknown command %q", args[0])
			}
			r.Printf("%s\n", c.Usage)
			return nil
		}
		r.Printf("commands: %s\n", strings.Join(r.Names(), ", "))
		return nil
	})
}

// Resolve finds an object by id, or by name ignoring case. An empty ref is the selection.
func Resolve(st sceneobj.State, ref string) (sceneobj.Object, error) {
	if ref == "" {
		if o, ok := st.SelectedObject(); ok {
			return o, nil
		}
		return sceneobj.Object{}, fmt.Errorf("nothing selected")
	}
	if i := sceneobj.Find(st.Objects, ref); i >= 0 {
		return st.Objects[i], nil
	}
	for _, o := range st.Objects {
		if strings.EqualFold(o.Name, ref) {
			return o, nil
		}
	}
	return sceneobj.Object{}, fmt.Errorf("no object %q", ref)
}

// ParseKind matches a kind case-insensitively. "text" is accepted for 3DText.
func ParseKind(s string) (sceneobj.Kind, bool) {
	if strings.EqualFold(s, "text") {
		return sceneobj.Text3D, true
	}
	for _, k := range sceneobj.Kinds {
		if strings.EqualFold(string(k), s) {
			return k, true
		}
	}
	return "", false
}

// ParseParticleType matches a particle effect case-insensitively.
func ParseParticleType(s string) (sceneobj.ParticleType, bool) {
	for _, pt := range sceneobj.ParticleTypes {
		if strings.EqualFold(string(pt), s) {
			return pt, true
		}
	}
	return "", false
}

// ParseTool matches a tool name; "none" clears the tool.
func ParseTool(s string) (sceneobj.Tool, bool) {
	for _, t := range []sceneobj.Tool{sceneobj.ToolMove, sceneobj.ToolRotate, sceneobj.ToolScale} {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	if strings.EqualFold(s, "none") {
		return sceneobj.ToolNone, true
	}
	return "", false
}

func withTarget(s *sceneobj.Store, fn func(sceneobj.Object) error) func([]string) error {
	return func(args []string) error {
		o, err := Resolve(s.Snapshot(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return fn(o)
	}
}

func nudge(e Editor, mode manip.Mode, unit float32) func([]string) error {
	return func(args []string) error {
		if len(args) != 3 {
			return ErrUsage
		}
		var d mgl32.Vec3
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return fmt.Errorf("%s: %w", mode, err)
			}
			d[i] = float32(v) * unit
		}
		if !e.Nudge(mode, d) {
			return fmt.Errorf("%s: no object is attached to the manipulator", mode)
		}
		return nil
	}
}

func oneArg(fn func(string) error) func([]string) error {
	return func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		return fn(args[0])
	}
}

func toggle(fn func(bool)) func([]string) error {
	return func(args []string) error {
		if len(args) != 1 {
			return ErrUsage
		}
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			fn(true)
		case "off", "false", "0":
			fn(false)
		default:
			return ErrUsage
		}
		return nil
	}
}

func extension(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 && !strings.ContainsAny(path[i:], `/\`) {
		return path[i:]
	}
	return ""
}
