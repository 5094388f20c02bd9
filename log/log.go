package log

import (
	hclog "github.com/hashicorp/go-hclog"
)

var L hclog.Logger

func init() {
	L = hclog.New(&hclog.LoggerOptions{
		Name: "ark",
	})
	L.SetLevel(hclog.Info)
}
