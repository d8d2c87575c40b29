// Package factory provides a small generic registry used to instantiate
// pluggable modules, such as run sinks, from configuration. A module is
// selected by a type string and receives a map of raw settings which the
// factory decodes into its own typed struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[io.Writer]()
//	reg.Register("file", func(conf map[string]any) (io.Writer, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return os.Create(c.Path)
//	})
//	w, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "runs.log"}})
package factory
