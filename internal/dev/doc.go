// Package dev provides content watching and browser live reload for local
// development.
//
// A Watcher turns fsnotify events under the content and static directories
// into debounced batches of changes. A Hub keeps a WebSocket open to every
// page served in dev mode and tells it to reload, refresh its stylesheets or
// show an error overlay.
//
// The serve command wires them together: a content change rebuilds the
// route table and reloads every open page, while a stylesheet change only
// refreshes stylesheets.
//
// # Usage
//
//	hub := dev.NewHub()
//	w, err := dev.NewWatcher(dev.WatcherConfig{Paths: []string{"content"}})
//	if err != nil {
//	    return err
//	}
//	w.OnChange(func(changes []dev.Change) {
//	    if err := app.Rebuild(); err != nil {
//	        hub.NotifyError(err.Error())
//	        return
//	    }
//	    hub.NotifyReload()
//	})
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
package dev
