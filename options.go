package vcmaturity

import (
	"github.com/pkg/errors"

	"github.com/vcmtools/vcm-maturity/internal/util"
)

// Option configures a service instance at construction time.
type Option func(*VcmMaturityService) error

//
// apply provided options, then fill any gaps with
// generated/default values
//
func (s *VcmMaturityService) setOptions(options ...Option) error {

	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}

	return s.setDefaults()
}

func (s *VcmMaturityService) setDefaults() error {

	if s.serviceName == "" {
		s.serviceName = util.GenerateName()
	}
	if s.serviceID == "" {
		s.serviceID = util.GenerateID()
	}
	if s.serviceHost == "" {
		s.serviceHost = "localhost"
	}
	if s.servicePort == 0 {
		port, err := util.AvailablePort()
		if err != nil {
			return errors.Wrap(err, "cannot assign port for service")
		}
		s.servicePort = port
	}

	return nil
}

//
// the name for this service instance, leave blank
// to have a unique name auto-generated
//
func Name(name string) Option {
	return func(s *VcmMaturityService) error {
		s.serviceName = name
		return nil
	}
}

//
// the id for this service instance, leave blank
// to have a unique id auto-generated
//
func ID(id string) Option {
	return func(s *VcmMaturityService) error {
		s.serviceID = id
		return nil
	}
}

//
// the host address this service will run on
//
func Host(host string) Option {
	return func(s *VcmMaturityService) error {
		s.serviceHost = host
		return nil
	}
}

//
// the port this service will listen on, leave as 0
// to have an available port assigned automatically
//
func Port(port int) Option {
	return func(s *VcmMaturityService) error {
		if port < 0 {
			return errors.Errorf("invalid port %d", port)
		}
		s.servicePort = port
		return nil
	}
}

//
// path to a json question catalog to serve instead of
// the built-in questionnaire
//
func CatalogFile(path string) Option {
	return func(s *VcmMaturityService) error {
		s.catalogFile = path
		return nil
	}
}
