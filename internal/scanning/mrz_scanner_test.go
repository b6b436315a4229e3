package scanning

import (
	"context"
	"errors"
	"strings"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/passport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const passportPageText = `SOCIALIST REPUBLIC OF VIET NAM
PASSPORT / HO CHIEU
Surname: NGUYEN
Given names: VAN A
Date of issue / Ngày cấp
15/03/2020
P<VNMNGUYEN<<VAN<A<<<<<<<<<<<<<<<<<<<<<<<<<<
C1234567<8VNM9001017M3001012<<<<<<<<<<<<<<02`

var _ = Describe("MRZScanner", func() {
	var (
		recognizer *mockRecognizer
		scanner    *MRZScanner
		doc        Document
		data       *passport.Data
		err        error
	)

	BeforeEach(func() {
		recognizer = &mockRecognizer{text: passportPageText}
		scanner = NewMRZScanner(recognizer, false)
		doc = Document{Data: testPNG(), ContentType: "image/png", Filename: "passport.png"}
	})

	JustBeforeEach(func() {
		data, err = scanner.Extract(context.Background(), doc)
	})

	It("is a configured primary scanner", func() {
		Expect(scanner.Configured()).To(BeTrue())
		Expect(scanner.Method()).To(Equal(MethodPrimary))
		Expect(scanner.Name()).To(Equal("mrz-mock"))
	})

	When("the page has a readable MRZ", func() {
		It("does not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("normalizes the MRZ fields", func() {
			Expect(*data).To(Equal(passport.Data{
				FullName:         "VAN A NGUYEN",
				DateOfBirth:      "1990-01-01",
				Gender:           "male",
				Nationality:      "VN",
				PassportNumber:   "C1234567",
				PassportExpiry:   "2030-01-01",
				DateOfIssue:      "2020-03-15",
				IssuingAuthority: "VN",
			}))
		})
	})

	When("the image is enhanced first", func() {
		BeforeEach(func() {
			scanner = NewMRZScanner(recognizer, true)
		})

		It("still extracts the data", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(data.PassportNumber).To(Equal("C1234567"))
		})
	})

	When("the text has no MRZ", func() {
		BeforeEach(func() {
			recognizer.text = "SOCIALIST REPUBLIC OF VIET NAM\nPASSPORT"
		})

		It("returns no result", func() {
			Expect(err).To(MatchError(ErrNoResult))
			Expect(err.Error()).To(ContainSubstring("no MRZ found"))
		})
	})

	When("the engine supports a restricted second pass", func() {
		var restricting restrictingRecognizer

		BeforeEach(func() {
			recognizer.text = "blurry page"
			recognizer.restrictedText = passportPageText[strings.Index(passportPageText, "P<VNM"):]
			restricting = restrictingRecognizer{recognizer}
			scanner = NewMRZScanner(restricting, false)
		})

		It("retries with the MRZ alphabet", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(recognizer.restrictedCalls).To(Equal(1))
			Expect(recognizer.charset).To(Equal(mrzCharset))
			Expect(data.PassportNumber).To(Equal("C1234567"))
		})

		It("does not find an issue date in the first pass text", func() {
			Expect(data.DateOfIssue).To(BeEmpty())
		})
	})

	When("the OCR call fails", func() {
		BeforeEach(func() {
			recognizer.err = errors.New("engine down")
		})

		It("returns no result", func() {
			Expect(err).To(MatchError(ErrNoResult))
			Expect(errors.Is(err, recognizer.err)).To(BeTrue())
		})
	})

	When("the document cannot be decoded", func() {
		BeforeEach(func() {
			doc = Document{Data: []byte("not an image"), ContentType: "image/jpeg"}
		})

		It("returns no result", func() {
			Expect(err).To(MatchError(ErrNoResult))
		})
	})

	When("the OCR engine misreads the fillers", func() {
		BeforeEach(func() {
			recognizer.text = "PASSPORT\n" +
				"P<UTOERIKSSON--ANNA-MARIA-------------------\n" +
				"L898902C36UTO7408122F1204159ZE184226BKKKKK10"
		})

		It("extracts the data without a restricted pass", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(data.PassportNumber).To(Equal("L898902C3"))
			Expect(recognizer.restrictedCalls).To(BeZero())
		})
	})

	When("the MRZ line 1 is not a passport line", func() {
		BeforeEach(func() {
			recognizer.text = strings.Replace(passportPageText, "P<VNMNGUYEN", "I<VNMNGUYEN", 1)
		})

		It("returns no result", func() {
			Expect(err).To(MatchError(ErrNoResult))
		})
	})
})

var _ = Describe("MRZScanner without a recognizer", func() {
	It("is not configured", func() {
		scanner := NewMRZScanner(nil, false)
		Expect(scanner.Configured()).To(BeFalse())
		Expect(scanner.Name()).To(Equal("mrz"))
		Expect(scanner.Close()).To(Succeed())
	})
})
