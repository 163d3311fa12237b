package main

import (
	"fmt"
	"time"

	"github.com/atinyakov/GreenFacade/internal/certgen"
	"github.com/spf13/cobra"
)

func newGenCertCmd() *cobra.Command {
	var (
		certPath string
		keyPath  string
		hosts    []string
		caCert   string
		caKey    string
		validFor time.Duration
	)

	cmd := &cobra.Command{
		Use:   "gencert",
		Short: "Create a server certificate for HTTPS",
		Long: `Create a server certificate and key for the catalog server.

The certificate is self-signed unless --ca-cert and --ca-key name an existing
certificate authority to sign it with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				certPEM, keyPEM []byte
				err             error
			)
			if caCert != "" || caKey != "" {
				ca, key, loadErr := certgen.LoadCACredentials(caCert, caKey)
				if loadErr != nil {
					return loadErr
				}
				certPEM, keyPEM, err = certgen.GenerateServerCertificate(hosts, validFor, ca, key)
			} else {
				certPEM, keyPEM, err = certgen.GenerateSelfSigned(hosts, validFor)
			}
			if err != nil {
				return err
			}
			if err := certgen.WritePair(certPath, keyPath, certPEM, keyPEM); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s for %v\n", certPath, keyPath, hosts)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&certPath, "cert", "certs/server.crt", "certificate output file")
	f.StringVar(&keyPath, "key", "certs/server.key", "key output file")
	f.StringSliceVar(&hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS names or IPs of the server")
	f.StringVar(&caCert, "ca-cert", "", "CA certificate (PEM)")
	f.StringVar(&caKey, "ca-key", "", "CA private key (PEM)")
	f.DurationVar(&validFor, "valid", certgen.DefaultValidity, "certificate lifetime")
	return cmd
}
