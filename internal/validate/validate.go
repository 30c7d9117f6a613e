package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

const (
	MinPasswordLen  = 8
	MaxPasswordLen  = 72
	MaxUsernameLen  = 64
	MaxHostnameLen  = 253
	MaxTitleLen     = 256
	MaxContentLen   = 65536
	MaxTagLen       = 128
	MaxTags         = 32
	MaxGeneratorLen = 128
	MaxBiographyLen = 4096
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)
	hostnameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9.-]*[a-zA-Z0-9])?(:[0-9]{1,5})?$`)
	tagRegex      = regexp.MustCompile(`^[\p{L}\p{N}_-]+(/[\p{L}\p{N}_-]+)*$`)
)

func SignUpForm(name, password, email string) error {
	return errors.Join(Username(name), Email(email), Password(password))
}

func Password(password string) error {
	l := len(password)
	switch {
	case l == 0:
		return errors.New("empty password")
	case l < MinPasswordLen:
		return fmt.Errorf("password too short; min %d characters", MinPasswordLen)
	case l > MaxPasswordLen:
		return fmt.Errorf("password too long; max %d characters", MaxPasswordLen)
	}
	return nil
}

func Email(email string) error {
	if len(email) == 0 {
		return errors.New("empty email")
	}
	_, err := mail.ParseAddress(email)

	return err
}

func Username(username string) error {
	if l := len(username); l == 0 {
		return errors.New("empty username")
	} else if l > MaxUsernameLen {
		return fmt.Errorf("username too long; max %d characters", MaxUsernameLen)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("invalid username %q", username)
	}
	return nil
}

// Hostname accepts a DNS name with an optional port, which is what development servers are usually known by.
func Hostname(hostname string) error {
	if l := len(hostname); l == 0 {
		return errors.New("empty hostname")
	} else if l > MaxHostnameLen {
		return fmt.Errorf("hostname too long; max %d characters", MaxHostnameLen)
	}
	if !hostnameRegex.MatchString(hostname) {
		return fmt.Errorf("invalid hostname %q", hostname)
	}
	return nil
}

// Tag validates a hierarchical tag such as "music/jazz".
func Tag(tag string) error {
	if len(tag) == 0 {
		return errors.New("empty tag")
	} else if len(tag) > MaxTagLen {
		return fmt.Errorf("tag too long; max %d characters", MaxTagLen)
	}
	if !tagRegex.MatchString(tag) {
		return fmt.Errorf("invalid tag %q", tag)
	}
	return nil
}

func Biography(bio string) error {
	if len(bio) > MaxBiographyLen {
		return fmt.Errorf("biography too long; max %d characters", MaxBiographyLen)
	}
	return nil
}

// Entry checks the user supplied fields of an entry. Tags are expected to be already normalized.
func Entry(title, content, generator string, tags []string) error {
	var errs []error
	if strings.TrimSpace(content) == "" {
		errs = append(errs, errors.New("empty content"))
	} else if len(content) > MaxContentLen {
		errs = append(errs, fmt.Errorf("content too long; max %d characters", MaxContentLen))
	}

	if len(title) > MaxTitleLen {
		errs = append(errs, fmt.Errorf("title too long; max %d characters", MaxTitleLen))
	}

	if len(generator) > MaxGeneratorLen {
		errs = append(errs, fmt.Errorf("generator too long; max %d characters", MaxGeneratorLen))
	}

	if len(tags) > MaxTags {
		errs = append(errs, fmt.Errorf("too many tags; max %d", MaxTags))
	}
	for _, t := range tags {
		errs = append(errs, Tag(t))
	}

	return errors.Join(errs...)
}
