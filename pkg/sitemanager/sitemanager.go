package sitemanager

import (
	"encoding/base64"
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/zansec/ftpzan/pkg/probe"
)

// server is one <Server> entry of a FileZilla site manager export.
type server struct {
	Host     string `xml:"Host"`
	Port     int    `xml:"Port"`
	Protocol int    `xml:"Protocol"`
	User     string `xml:"User"`
	Pass     pass   `xml:"Pass"`
}

type pass struct {
	Encoding string `xml:"encoding,attr"`
	Value    string `xml:",chardata"`
}

// decode resolves the stored password. FileZilla base64-encodes it in
// current exports; undecodable values fall back to the raw text.
func (p pass) decode() string {
	if p.Encoding != "base64" || p.Value == "" {
		return p.Value
	}
	raw, err := base64.StdEncoding.DecodeString(p.Value)
	if err != nil {
		return p.Value
	}
	return string(raw)
}

// Load parses a FileZilla site manager XML export into probe descriptors.
// <Server> elements are picked up at any depth, matching FileZilla's
// nested folder structure. Entries without a host are skipped; a missing
// port defaults to 21 and protocol 1 selects SFTP, anything else FTP.
func Load(path string) ([]probe.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open site manager export")
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) ([]probe.Descriptor, error) {
	decoder := xml.NewDecoder(r)
	var out []probe.Descriptor
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "could not parse site manager export")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Server" {
			continue
		}
		var s server
		if err := decoder.DecodeElement(&s, &start); err != nil {
			return nil, errors.Wrap(err, "could not parse Server entry")
		}
		if s.Host == "" {
			continue
		}
		if s.Port == 0 {
			s.Port = 21
		}
		protocol := probe.FTP
		if s.Protocol == 1 {
			protocol = probe.SFTP
		}
		out = append(out, probe.Descriptor{
			Endpoint:   probe.Endpoint{Host: s.Host, Port: s.Port, Protocol: protocol},
			Credential: probe.Credential{Username: s.User, Password: s.Pass.decode()},
		})
	}
	return out, nil
}
