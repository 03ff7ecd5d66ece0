package main

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/colinmarc/hdfs/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	errInvalidURL        = errors.New("invalid url")
	errUnsupportedScheme = errors.New("unsupported url scheme")
)

// sourceOpener opens the archive stream behind a url of one scheme.
type sourceOpener interface {
	open(u *url.URL) (io.ReadCloser, error)
}

// sourceResolver picks the archive stream: stdin when no url is configured,
// otherwise whatever the opener registered for the url's scheme returns.
type sourceResolver struct {
	stdin   io.Reader
	openers map[string]sourceOpener
	log     logrus.FieldLogger
}

// supportedScheme reports whether newSourceResolver registers an opener for
// scheme.
func supportedScheme(scheme string) bool {
	switch scheme {
	case "file", "http", "https", "s3", "hdfs":
		return true
	}
	return false
}

func newSourceResolver(stdin io.Reader, awsRegion string, log logrus.FieldLogger) *sourceResolver {
	web := &httpSource{client: http.DefaultClient}
	return &sourceResolver{
		stdin: stdin,
		openers: map[string]sourceOpener{
			"file":  fileSource{},
			"http":  web,
			"https": web,
			"s3":    &s3Source{region: awsRegion},
			"hdfs":  hdfsSource{},
		},
		log: log,
	}
}

// getSourceInputStream opens the configured source with a single blocking
// attempt. The caller owns the returned stream and must close it.
func (r *sourceResolver) getSourceInputStream(rawURL string) (io.ReadCloser, error) {
	if rawURL == "" {
		r.log.Debug("reading archive from stdin")
		return io.NopCloser(r.stdin), nil
	}

	u, err := parseSourceURL(rawURL)
	if err != nil {
		return nil, err
	}

	opener, ok := r.openers[u.Scheme]
	if !ok {
		return nil, errors.Wrapf(errUnsupportedScheme, "%q", u.Scheme)
	}

	r.log.WithFields(logrus.Fields{
		"url":    u.Redacted(),
		"scheme": u.Scheme,
	}).Debug("opening archive source")

	rc, err := opener.open(u)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", u.Redacted())
	}
	return rc, nil
}

func parseSourceURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(errInvalidURL, err.Error())
	}
	if u.Scheme == "" {
		return nil, errors.Wrapf(errInvalidURL, "no scheme in %q", rawURL)
	}
	return u, nil
}

type fileSource struct{}

func (fileSource) open(u *url.URL) (io.ReadCloser, error) {
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return f, nil
}

type httpSource struct {
	client *http.Client
}

func (s *httpSource) open(u *url.URL) (io.ReadCloser, error) {
	resp, err := s.client.Get(u.String())
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("failed fetch: %v (%v)", u.Redacted(), resp.Status)
	}
	return resp.Body, nil
}

// s3Source reads s3://<bucket>/<key>.
type s3Source struct {
	region string
}

func (s *s3Source) open(u *url.URL) (io.ReadCloser, error) {
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return nil, errors.Wrapf(errInvalidURL, "expected s3://<bucket>/<key>, got %q", u.String())
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(s.region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating aws session")
	}

	result, err := s3.New(sess).GetObject(&s3.GetObjectInput{
		Bucket: aws.String(u.Host),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetching from s3")
	}
	return result.Body, nil
}

// hdfsSource reads hdfs://<namenode>/<path> as the current user.
type hdfsSource struct{}

func (hdfsSource) open(u *url.URL) (io.ReadCloser, error) {
	client, err := hdfs.New(u.Host)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to namenode")
	}

	f, err := client.Open(u.Path)
	if err != nil {
		client.Close()
		return nil, errors.WithStack(err)
	}
	return &hdfsFile{FileReader: f, client: client}, nil
}

// hdfsFile closes the namenode connection along with the file.
type hdfsFile struct {
	*hdfs.FileReader
	client *hdfs.Client
}

func (f *hdfsFile) Close() error {
	err := f.FileReader.Close()
	if cerr := f.client.Close(); err == nil {
		err = cerr
	}
	return err
}
