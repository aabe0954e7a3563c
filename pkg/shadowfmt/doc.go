// Package shadowfmt provides a public Go API for keeping a shadow directory
// of formatted source files in sync with an editable source tree.
//
// The host build tool registers the plugin once, activates it, and lets it
// rewrite the host configuration so that entry points resolve into the
// shadow tree while the host is watching:
//
//	p := shadowfmt.New(shadowfmt.WithWatch(true))
//	if err := p.Register(shadowfmt.Options{Source: "src", Cache: ".prettier"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, err := p.HostConfig(hostConfig)
//	...
//
//	if err := p.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// In build-once mode files are formatted in place and nothing is mirrored.
package shadowfmt
