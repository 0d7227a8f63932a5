package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/cloudkucooland/HomeKitBridges/ClimateHKBridge"
	"github.com/cloudkucooland/HomeKitBridges/ClimateHKBridge/hass"

	"github.com/brutella/hap"
	"github.com/brutella/hap/log"

	"github.com/urfave/cli/v2"

	"github.com/vishvananda/netlink"
)

func main() {
	var dir, file string
	var debug bool

	app := cli.App{
		Name:  "climate homekit bridge",
		Usage: "expose a Home Assistant climate entity to HomeKit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Value:       "/data/homekit",
				Usage:       "HomeKit pairing storage directory",
				Destination: &dir,
			},
			&cli.StringFlag{
				Name:        "config",
				Value:       "/data/options.json",
				Usage:       "configuration file",
				Destination: &file,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Value:       false,
				Usage:       "enable debug",
				Destination: &debug,
			},
		},
		Action: func(c *cli.Context) error {
			if debug {
				log.Debug.Enable()
			}

			fulldir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(fulldir, 0o755); err != nil {
				return err
			}

			// bad config is fatal before anything is published
			conf, err := climatehkb.LoadConfig(file)
			if err != nil {
				return err
			}

			hub := hass.NewClient(conf.HAURL, conf.Token, conf.HubTimeout())
			bridge := climatehkb.New(conf, hub)

			s, err := hap.NewServer(hap.NewFsStore(fulldir), bridge.Climate.A)
			if err != nil {
				return err
			}
			s.Pin = conf.Pin
			s.Addr = conf.Addr()

			ctx, cancel := context.WithCancel(context.Background())
			var wg sync.WaitGroup

			// first poll runs right away, then every poll_interval
			wg.Add(1)
			go func() {
				defer wg.Done()
				bridge.Run(ctx)
			}()

			if conf.Listen != "" {
				wg.Add(1)
				go func() {
					defer wg.Done()
					bridge.HTTPServer(ctx, conf.Listen)
				}()
			}

			// serve HomeKit
			wg.Add(1)
			go func() {
				defer wg.Done()
				log.Info.Printf("HomeKit climate bridge running on %s", s.Addr)
				if err := s.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
					log.Info.Println(err.Error())
				}
			}()

			// pull fresh state as soon as an interface comes back
			linkstatuschan := make(chan netlink.LinkUpdate, 5)
			disconnectchan := make(chan struct{})
			if err := netlink.LinkSubscribe(linkstatuschan, disconnectchan); err != nil {
				log.Info.Printf("not watching interface changes: %s", err.Error())
			}

			sigch := make(chan os.Signal, 3)
			signal.Notify(sigch, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP, os.Interrupt)

		DONE:
			for {
				select {
				case sig := <-sigch:
					log.Info.Printf("shutdown requested by signal: %s", sig)
					break DONE
				case u, ok := <-linkstatuschan:
					if !ok {
						linkstatuschan = nil
						continue
					}
					log.Info.Printf("interface change (%s), syncing", u.Attrs().Name)
					bridge.Poller.Trigger(ctx)
				}
			}

			close(disconnectchan)
			cancel()
			wg.Wait()
			// HomeKit is down, nothing new can be dispatched
			bridge.Router.Wait()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Info.Fatal(err)
	}
}
