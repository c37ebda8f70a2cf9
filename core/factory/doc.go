// Package factory provides the generic registry used to build modules from
// configuration. A module is described by a type name and a map of raw
// settings; factories decode the settings into typed structs and return the
// concrete implementation.
//
// Strategies, metrics sinks and history stores are all created this way:
//
//	reg := factory.NewRegistry[dispatch.Strategy]()
//	_ = reg.Register("segmented", func(conf map[string]any) (dispatch.Strategy, error) {
//	    var c struct{ LoadThreshold float64 `json:"load_threshold"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return dispatch.NewSegmented(c.LoadThreshold), nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "segmented", Conf: map[string]any{"load_threshold": 0.8}})
package factory
