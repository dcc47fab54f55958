package main

import (
	"strings"
	"time"

	"github.com/mdzio/go-lib/conc"
)

// watch logs the values of a group periodically. The returned function stops
// the watch.
func watch(b backend, group string, interval time.Duration) func() {
	return conc.DaemonFunc(func(ctx conc.Context) {
		log.Infof("Watching group %s every %v", group, interval)
		for {
			ps, err := b.GetParamset(group)
			if err != nil {
				log.Warningf("Reading group %s failed: %v", group, err)
			} else {
				log.Infof("%s: %s", group, strings.TrimSpace(formatParamset(ps, " ")))
			}
			if ctx.Sleep(interval) != nil {
				log.Debugf("Watch of group %s stopped", group)
				return
			}
		}
	})
}
