package scan

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/passport"
	"github.com/JuhanKuusk/vietnam-fast-visa/internal/scanning"
)

// uploadBody builds a multipart body with one "file" part
func uploadBody(filename, contentType string, data []byte) (*bytes.Buffer, string) {
	var b bytes.Buffer
	writer := multipart.NewWriter(&b)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(h)
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write(data)
	Expect(err).NotTo(HaveOccurred())
	Expect(writer.Close()).To(Succeed())
	return &b, writer.FormDataContentType()
}

func decodeError(resp *http.Response) string {
	defer resp.Body.Close()
	var body map[string]string
	Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
	return body["error"]
}

var _ = Describe("Server", func() {
	var (
		db          *mockDB
		scanner     *mockScanner
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	BeforeEach(func() {
		db = newMockDB()
		scanner = newMockScanner()
		auth = BasicAuth{}
	})

	JustBeforeEach(func() {
		service := NewServiceWithDeps(db, scanner, &mockIDGenerator{}, &mockTimeSource{now: time.Now()})
		server := NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	})

	AfterEach(func() {
		ghttpServer.Close()
	})

	Describe("POST /api/passport-scan", func() {
		var (
			filename    string
			contentType string
			data        []byte
			resp        *http.Response
		)

		BeforeEach(func() {
			filename = "passport.jpg"
			contentType = "image/jpeg"
			data = []byte("jpeg bytes")
		})

		JustBeforeEach(func() {
			body, formType := uploadBody(filename, contentType, data)
			var err error
			resp, err = http.Post(ghttpServer.URL()+"/api/passport-scan", formType, body)
			Expect(err).NotTo(HaveOccurred())
		})

		When("the scan succeeds", func() {
			BeforeEach(func() {
				scanner.result = &scanning.Result{
					Data: &passport.Data{
						FullName:       "ANNA MARIA ERIKSSON",
						DateOfBirth:    "1974-08-12",
						Gender:         "female",
						Nationality:    "UTO",
						PassportNumber: "L898902C3",
						PassportExpiry: "2012-04-15",
					},
					Method: scanning.MethodPrimary,
				}
			})

			It("returns the extracted fields and method", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
				defer resp.Body.Close()

				var body struct {
					Success bool           `json:"success"`
					Data    map[string]any `json:"data"`
					Method  string         `json:"method"`
				}
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				Expect(body.Success).To(BeTrue())
				Expect(body.Method).To(Equal("primary"))
				Expect(body.Data).To(HaveKeyWithValue("fullName", "ANNA MARIA ERIKSSON"))
				Expect(body.Data).To(HaveKeyWithValue("passportNumber", "L898902C3"))
				Expect(body.Data).To(HaveKeyWithValue("dateOfIssue", ""))
			})

			It("sets CORS headers", func() {
				resp.Body.Close()
				Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
			})
		})

		When("the part is labeled application/octet-stream", func() {
			BeforeEach(func() {
				contentType = "application/octet-stream"
				filename = "page.png"
			})

			It("infers the type from the filename", func() {
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(scanner.docs[0].ContentType).To(Equal("image/png"))
			})
		})

		When("the file type is not supported", func() {
			BeforeEach(func() {
				contentType = "image/gif"
				filename = "passport.gif"
			})

			It("returns Bad Request with the validation message", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(decodeError(resp)).To(Equal("Invalid file type. Please upload a JPEG, PNG, WebP, or PDF file."))
				Expect(scanner.docs).To(BeEmpty())
			})
		})

		When("the file is larger than 10MB", func() {
			BeforeEach(func() {
				data = bytes.Repeat([]byte{0xff}, MaxFileSize+1)
			})

			It("returns Bad Request", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				Expect(decodeError(resp)).To(Equal("File too large. Maximum size is 10MB."))
			})
		})

		When("no provider is configured", func() {
			BeforeEach(func() {
				scanner.err = scanning.ErrNotConfigured
			})

			It("returns Service Unavailable", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))
				Expect(decodeError(resp)).To(Equal(msgNotConfigured))
			})
		})

		When("the MRZ reader found nothing and no fallback ran", func() {
			BeforeEach(func() {
				scanner.err = scanning.NewProviderError(scanning.ErrorNoResult, "mrz-tesseract", "no MRZ found", nil)
				scanner.result = &scanning.Result{Method: scanning.MethodPrimary}
			})

			It("returns Unprocessable Entity with the MRZ message", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				Expect(decodeError(resp)).To(Equal(msgNoMRZ))
			})
		})

		When("the secondary provider found nothing", func() {
			BeforeEach(func() {
				scanner.err = scanning.NewProviderError(scanning.ErrorPaymentRequired, "mindee", "subscription lapsed", nil)
				scanner.result = &scanning.Result{Method: scanning.MethodSecondary}
			})

			It("returns Unprocessable Entity with the clearer photo message", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				Expect(decodeError(resp)).To(Equal(msgNoData))
			})
		})

		When("the secondary provider times out", func() {
			BeforeEach(func() {
				scanner.err = scanning.NewProviderError(scanning.ErrorTimeout, "mindee", "polling ceiling reached", nil)
				scanner.result = &scanning.Result{Method: scanning.MethodSecondary}
			})

			It("returns Request Timeout", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusRequestTimeout))
				Expect(decodeError(resp)).To(Equal(msgTimeout))
			})
		})

		When("an unexpected error occurs", func() {
			BeforeEach(func() {
				scanner.err = scanning.NewProviderError(scanning.ErrorInternal, "mindee", "decoding", io.ErrUnexpectedEOF)
			})

			It("returns Internal Server Error with a generic message", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
				Expect(decodeError(resp)).To(Equal(msgScanFailed))
			})
		})
	})

	Describe("POST /api/passport-scan without a file", func() {
		It("returns Bad Request", func() {
			var b bytes.Buffer
			writer := multipart.NewWriter(&b)
			Expect(writer.WriteField("note", "no file here")).To(Succeed())
			Expect(writer.Close()).To(Succeed())

			resp, err := http.Post(ghttpServer.URL()+"/api/passport-scan", writer.FormDataContentType(), &b)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(decodeError(resp)).To(Equal("No file provided"))
		})
	})

	Describe("GET /api/passport-scans", func() {
		BeforeEach(func() {
			for _, id := range []string{"a", "b", "c"} {
				Expect(db.SaveRecord(&Record{ID: id, Success: true})).To(Succeed())
			}
		})

		It("lists records newest first", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/passport-scans")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var records []*Record
			Expect(json.NewDecoder(resp.Body).Decode(&records)).To(Succeed())
			Expect(records).To(HaveLen(3))
			Expect(records[0].ID).To(Equal("c"))
		})

		It("honors the limit parameter", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/passport-scans?limit=1")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			var records []*Record
			Expect(json.NewDecoder(resp.Body).Decode(&records)).To(Succeed())
			Expect(records).To(HaveLen(1))
		})

		It("rejects an invalid limit", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/passport-scans?limit=zero")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			resp.Body.Close()
		})

		When("the store fails", func() {
			BeforeEach(func() {
				db.listErr = errStore
			})

			It("returns Internal Server Error", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/passport-scans")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
				Expect(decodeError(resp)).To(Equal("Internal server error"))
			})
		})
	})

	Describe("GET /api/passport-scans/{id}", func() {
		BeforeEach(func() {
			Expect(db.SaveRecord(&Record{ID: "scan-9", Method: scanning.MethodSecondary})).To(Succeed())
		})

		It("returns the record", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/passport-scans/scan-9")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var record Record
			Expect(json.NewDecoder(resp.Body).Decode(&record)).To(Succeed())
			Expect(record.Method).To(Equal(scanning.MethodSecondary))
		})

		It("returns Not Found for an unknown ID", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/passport-scans/missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(decodeError(resp)).To(Equal("Scan not found"))
		})
	})

	Describe("GET /healthz", func() {
		BeforeEach(func() {
			scanner.configured = false
			auth = BasicAuth{Username: "admin", Password: "secret"}
		})

		It("reports status without credentials", func() {
			resp, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var body map[string]any
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("status", "ok"))
			Expect(body).To(HaveKeyWithValue("configured", false))
		})
	})

	Describe("GET /metrics", func() {
		It("serves Prometheus metrics", func() {
			resp, err := http.Get(ghttpServer.URL() + "/metrics")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("go_goroutines"))
		})
	})

	Describe("OPTIONS preflight", func() {
		It("answers No Content with CORS headers", func() {
			req, err := http.NewRequest(http.MethodOptions, ghttpServer.URL()+"/api/passport-scan", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "admin", Password: "secret"}
		})

		It("rejects requests without credentials", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/passport-scans")
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})

		It("rejects wrong credentials", func() {
			req, err := http.NewRequest(http.MethodGet, ghttpServer.URL()+"/api/passport-scans", nil)
			Expect(err).NotTo(HaveOccurred())
			req.SetBasicAuth("admin", "wrong")
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
		})

		It("accepts valid credentials", func() {
			req, err := http.NewRequest(http.MethodGet, ghttpServer.URL()+"/api/passport-scans", nil)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("admin:secret")))
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})
})
