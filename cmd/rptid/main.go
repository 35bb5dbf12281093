package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pagopa/pay-portal-service/internal/domain"
	"github.com/pagopa/pay-portal-service/pkg/encoding"
)

// decodedRptID is the JSON printed by the decode command
type decodedRptID struct {
	RptID                  string                     `json:"rptId"`
	OrganizationFiscalCode string                     `json:"organizationFiscalCode"`
	AuxDigit               string                     `json:"auxDigit"`
	PaymentNoticeNumber    domain.PaymentNoticeNumber `json:"paymentNoticeNumber"`
}

// amount is the JSON printed by the amount command
type amount struct {
	AmountInEuroCents string `json:"amountInEuroCents"`
	Euros             string `json:"euros"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "decode":
		err = decode(args[1:], stdout)
	case "encode":
		err = encode(args[1:], stdout, stderr)
	case "amount":
		err = convertAmount(args[1:], stdout)
	default:
		usage(stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "rptid %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func decode(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one rpt id")
	}

	id, err := domain.DecodeRptID(args[0])
	if err != nil {
		return err
	}

	return printJSON(stdout, decodedRptID{
		RptID:                  id.String(),
		OrganizationFiscalCode: string(id.OrganizationFiscalCode),
		AuxDigit:               string(id.PaymentNoticeNumber.AuxDigit()),
		PaymentNoticeNumber:    id.PaymentNoticeNumber,
	})
}

func encode(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("encode", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var parts domain.NoticeParts
	org := flags.String("org", "", "organization fiscal code (11 digits)")
	aux := flags.String("aux", "0", "aux digit: 0, 1, 2 or 3")
	flags.StringVar(&parts.ApplicationCode, "app", "", "application code (aux 0)")
	flags.StringVar(&parts.SegregationCode, "seg", "", "segregation code (aux 3)")
	flags.StringVar(&parts.CheckDigit, "check", "", "check digit (aux 0, 2, 3)")
	flags.StringVar(&parts.IUV13, "iuv13", "", "IUV, 13 digits (aux 0, 3)")
	flags.StringVar(&parts.IUV15, "iuv15", "", "IUV, 15 digits (aux 2)")
	flags.StringVar(&parts.IUV17, "iuv17", "", "IUV, 17 digits (aux 1)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	notice, err := domain.BuildPaymentNoticeNumber(domain.AuxDigit(*aux), parts)
	if err != nil {
		return err
	}
	id, err := domain.NewRptID(domain.OrganizationFiscalCode(*org), notice)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, domain.EncodeRptID(id))
	return err
}

func convertAmount(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one amount in euro cents")
	}

	cents, err := domain.ParseAmountInEuroCents(args[0])
	if err != nil {
		return err
	}
	euros, err := cents.Euros()
	if err != nil {
		return err
	}

	return printJSON(stdout, amount{AmountInEuroCents: string(cents), Euros: euros.StringFixed(2)})
}

func printJSON(w io.Writer, v interface{}) error {
	body, err := encoding.EncodeJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(body))
	return err
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rptid <command> [arguments]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  decode <rptId>           - Split a 29 digit RptId into its parts")
	fmt.Fprintln(w, "  encode -org=... -aux=... - Build an RptId from its parts")
	fmt.Fprintln(w, "  amount <cents>           - Convert a notice amount to euros")
}
