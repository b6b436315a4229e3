package mrz

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	specimenLine1 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
	specimenLine2 = "L898902C36UTO7408122F1204159ZE184226B<<<<<10"
)

var _ = Describe("CheckDigit", func() {
	DescribeTable("computes the 7-3-1 check digit",
		func(input string, expected int) {
			Expect(CheckDigit(input)).To(Equal(expected))
		},
		Entry("document number", "L898902C3", 6),
		Entry("birth date", "740812", 2),
		Entry("expiry date", "120415", 9),
		Entry("personal number", "ZE184226B<<<<<", 1),
		Entry("filler only", "<<<<<<<<<", 0),
	)
})

var _ = Describe("Parse", func() {
	var (
		line1, line2 string
		result       *Result
		err          error
	)

	JustBeforeEach(func() {
		result, err = Parse(line1, line2)
	})

	When("the MRZ is valid", func() {
		BeforeEach(func() {
			line1, line2 = specimenLine1, specimenLine2
		})

		It("does not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("is valid", func() {
			Expect(result.Valid).To(BeTrue())
			for _, d := range result.Details {
				Expect(d.Valid).To(BeTrue(), d.Field)
			}
		})

		It("reads the fields", func() {
			Expect(result.Fields).To(Equal(Fields{
				DocumentCode:   "P",
				IssuingState:   "UTO",
				LastName:       "ERIKSSON",
				FirstName:      "ANNA MARIA",
				DocumentNumber: "L898902C3",
				Nationality:    "UTO",
				BirthDate:      "740812",
				Sex:            "F",
				ExpirationDate: "120415",
				PersonalNumber: "ZE184226B",
			}))
		})
	})

	When("the cleaner turned letters in names into digits", func() {
		BeforeEach(func() {
			line1 = "P<UT0ERIKSS0N<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
			line2 = specimenLine2
		})

		It("restores the letters", func() {
			Expect(result.Fields.IssuingState).To(Equal("UTO"))
			Expect(result.Fields.LastName).To(Equal("ERIKSSON"))
		})
	})

	When("a date contains a letter lookalike", func() {
		BeforeEach(func() {
			line1 = specimenLine1
			line2 = strings.Replace(specimenLine2, "7408122", "74O8122", 1)
		})

		It("corrects the date and stays valid", func() {
			Expect(result.Valid).To(BeTrue())
			Expect(result.Fields.BirthDate).To(Equal("740812"))
			Expect(result.Details).To(ContainElement(FieldCheck{Field: "birthDate", Valid: true, Corrected: true}))
		})
	})

	When("one document number character is ambiguous", func() {
		BeforeEach(func() {
			line1 = specimenLine1
			line2 = "AB1O3456<0UTO7408122F1204159<<<<<<<<<<<<<<<0"
		})

		It("repairs it with the check digit", func() {
			Expect(result.Fields.DocumentNumber).To(Equal("AB103456"))
			Expect(result.Details).To(ContainElement(FieldCheck{Field: "documentNumber", Valid: true, Corrected: true}))
			Expect(result.Valid).To(BeTrue())
		})
	})

	When("the check digits do not match", func() {
		BeforeEach(func() {
			line1 = "P<VNMNGUYEN<<VAN<A<<<<<<<<<<<<<<<<<<<<<<<<<<"
			line2 = "C1234567<8VNM9001017M3001012<<<<<<<<<<<<<<02"
		})

		It("does not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("is not valid", func() {
			Expect(result.Valid).To(BeFalse())
		})

		It("still recovers the fields", func() {
			Expect(result.HasFields()).To(BeTrue())
			Expect(result.Fields.IssuingState).To(Equal("VNM"))
			Expect(result.Fields.LastName).To(Equal("NGUYEN"))
			Expect(result.Fields.FirstName).To(Equal("VAN A"))
			Expect(result.Fields.DocumentNumber).To(Equal("C1234567"))
			Expect(result.Fields.Nationality).To(Equal("VNM"))
			Expect(result.Fields.BirthDate).To(Equal("900101"))
			Expect(result.Fields.Sex).To(Equal("M"))
			Expect(result.Fields.ExpirationDate).To(Equal("300101"))
		})
	})

	When("a line has the wrong length", func() {
		BeforeEach(func() {
			line1, line2 = specimenLine1, specimenLine2[:40]
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ErrUnsupportedFormat))
		})
	})

	When("line 1 is not a passport line", func() {
		BeforeEach(func() {
			line1, line2 = "I"+specimenLine1[1:], specimenLine2
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(ErrUnsupportedFormat))
		})
	})

	When("the lines are only filler", func() {
		BeforeEach(func() {
			line1 = "P" + strings.Repeat("<", 43)
			line2 = strings.Repeat("<", 44)
		})

		It("recovers no fields", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.HasFields()).To(BeFalse())
		})
	})
})
