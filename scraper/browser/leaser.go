package browser

import (
	"io/ioutil"
	"net"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// LeaserService hands out chrome instances to connect to
type LeaserService interface {
	Acquire() (string, error) // returns host:port of the debugger
	Return(addr string) error
	Cleanup() error
}

func randPort() string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Warn().Err(err).Msg("unable to get port using default 9022")
		return "9022"
	}
	_, randPort, _ := net.SplitHostPort(l.Addr().String())
	l.Close()
	return randPort
}

func randProfile(tmp string) (string, error) {
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return "", err
	}
	profile, err := ioutil.TempDir(tmp, "gcd")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary profile directory")
	}
	if profile == "" {
		return "", errors.New("profile returned empty which could delete system files on termination")
	}
	return profile, nil
}

// RemoveTmpContents that the browser created
func RemoveTmpContents(tmp string) error {
	if tmp == "" {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(tmp, "gcd*"))
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := os.RemoveAll(file); err != nil {
			return err
		}
	}
	return nil
}
