package cli

import (
	flag "github.com/spf13/pflag"
)

func cmdConfig() *Command {
	return &Command{
		Flags: flag.NewFlagSet("config", flag.ContinueOnError),
		Usage: "config",
		Short: "Show the resolved model and sidecar paths",
		Exec: func(a *App, o *IO, _ []string) error {
			env, err := a.Env()
			if err != nil {
				return err
			}

			o.Println("model:       ", env.Cfg.ModelPathAbs)

			if env.Cfg.ConfigFile != "" {
				o.Println("config file: ", env.Cfg.ConfigFile)
			}

			o.Println("dev data:    ", env.Store.DevDataPath())
			o.Println("dev config:  ", env.Store.ConfigPath())
			o.Println("page mapping:", env.Store.PageMappingPath())

			return nil
		},
	}
}
