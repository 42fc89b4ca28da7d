package certificates_test

import (
	"crypto/x509"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xfinder/reporting-api/pkg/certificates"
)

var _ = Describe("Certification Provider", func() {
	Context("self signed certificate", func() {
		It("generates successfully", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(10 * time.Second))
			Expect(err).To(BeNil())
			Expect(key).ToNot(BeNil())

			Expect(cert.Issuer.Organization).Should(ContainElement("XFinder"))
			Expect(cert.Subject.OrganizationalUnit).Should(ContainElement("Reporting API"))
		})

		// Given a certificate with a future expiry
		// When we check the certificate validity
		// Then NotBefore should be before NotAfter
		It("has correct validity period", func() {
			expiry := time.Now().Add(24 * time.Hour)
			cert, _, err := certificates.GenerateSelfSignedCertificate(expiry)
			Expect(err).To(BeNil())

			Expect(cert.NotBefore).To(BeTemporally("<", cert.NotAfter))
			Expect(cert.NotAfter).To(BeTemporally("~", expiry, time.Second))
		})

		// Given a generated certificate
		// When we check its names
		// Then it should be valid for the loopback host
		It("is valid for localhost", func() {
			cert, _, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(cert.VerifyHostname("localhost")).To(Succeed())
			Expect(cert.IPAddresses).NotTo(BeEmpty())
			Expect(cert.IPAddresses[0].Equal(net.ParseIP("127.0.0.1"))).To(BeTrue())
			Expect(cert.ExtKeyUsage).To(ContainElement(x509.ExtKeyUsageServerAuth))
		})
	})

	Context("tls config", func() {
		// Given a validity period
		// When we build the server TLS config
		// Then it should carry one certificate and require TLS 1.2
		It("builds a server config", func() {
			cfg, err := certificates.NewTLSConfig(time.Hour)
			Expect(err).To(BeNil())

			Expect(cfg.Certificates).To(HaveLen(1))
			Expect(cfg.MinVersion).To(BeEquivalentTo(0x0303))
		})
	})
})
