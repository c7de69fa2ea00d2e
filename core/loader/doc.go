// Package loader registers the HTTP features of the server.
//
// Each feature implements Feature and mounts its own routes; the Manager loads
// the enabled ones in registration order.
//
//	mgr := loader.NewManager(logg)
//	mgr.Register(synchro.NewFeature(svc, logg))
//	if err := mgr.LoadAll(app); err != nil {
//	    return err
//	}
package loader
