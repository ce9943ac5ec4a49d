package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterbourgon/ff/v3"
	vcmat "github.com/vcmtools/vcm-maturity"
)

func main() {

	fs := flag.NewFlagSet("vcm-maturity", flag.ExitOnError)
	var (
		_           = fs.String("config", "", "config file (optional), json format.")
		serviceName = fs.String("name", "", "name for this assessment service instance")
		serviceID   = fs.String("id", "", "id for this assessment service instance, leave blank to auto-generate a unique id")
		serviceHost = fs.String("host", "localhost", "name/address of host for this service")
		servicePort = fs.Int("port", 0, "port to run service on, if not specified will assign an available port automatically")
		catalogFile = fs.String("catalog", "", "path to a json question catalog to use instead of the built-in questionnaire")
	)

	ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("VCM_MATURITY_SRVC"),
	)

	opts := []vcmat.Option{
		vcmat.Name(*serviceName),
		vcmat.ID(*serviceID),
		vcmat.Host(*serviceHost),
		vcmat.Port(*servicePort),
		vcmat.CatalogFile(*catalogFile),
	}

	srvc, err := vcmat.New(opts...)
	if err != nil {
		fmt.Printf("\nCannot create vcm-maturity service:\n%s\n\n", err)
		return
	}

	srvc.PrintConfig()

	// signal handler for shutdown
	closed := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Kill, os.Interrupt)
	go func() {
		<-c
		fmt.Println("\nvcm-maturity shutting down")
		srvc.Shutdown()
		fmt.Println("vcm-maturity closed")
		close(closed)
	}()

	srvc.Start()

	// block until shutdown by sig-handler
	<-closed

}
